package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scanpack/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func withBearer(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// BearerUnaryInterceptor attaches the session token to outgoing unary calls.
// An Unauthenticated answer to a call that carried a token is reported to
// onUnauthorized.
func BearerUnaryInterceptor(tokens TokenSource, onUnauthorized func(ctx context.Context)) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		token := tokens.Token()
		if token != "" {
			ctx = withBearer(ctx, token)
		}

		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil && token != "" && onUnauthorized != nil && status.Code(err) == codes.Unauthenticated {
			onUnauthorized(ctx)
		}
		return err
	}
}

// GRPCProber checks backend liveness through the standard gRPC health service.
type GRPCProber struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

var _ Prober = (*GRPCProber)(nil)

// NewGRPCProber dials addr lazily. tokens may be nil.
func NewGRPCProber(addr string, tokens TokenSource, onUnauthorized func(ctx context.Context)) (*GRPCProber, error) {
	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if tokens != nil {
		opts = append(opts, grpc.WithUnaryInterceptor(BearerUnaryInterceptor(tokens, onUnauthorized)))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &GRPCProber{conn: conn, health: healthpb.NewHealthClient(conn)}, nil
}

func (p *GRPCProber) Ping(ctx context.Context) error {
	resp, err := p.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: health status %s", common.ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (p *GRPCProber) Close() error {
	return p.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
