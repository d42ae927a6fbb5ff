package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/scanpack/internal/common"
	"github.com/google/uuid"
)

// BearerTransport attaches the session token and a request id to every
// outgoing request. A 401 answer to a request that carried a token is
// reported to OnUnauthorized; the response is still returned to the caller.
type BearerTransport struct {
	Base           http.RoundTripper
	Tokens         TokenSource
	OnUnauthorized func(ctx context.Context)
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrip must not modify the caller's request.
	r := req.Clone(req.Context())

	var token string
	if t.Tokens != nil {
		token = t.Tokens.Token()
	}
	if token != "" {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}
	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	resp, err := t.base().RoundTrip(r)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" && t.OnUnauthorized != nil {
		t.OnUnauthorized(req.Context())
	}
	return resp, nil
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
