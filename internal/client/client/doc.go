// Package client contains the transports the scanpack client uses to talk to
// the warehouse backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Login,
//     Ping and an authenticated GetJSON for dashboard data.
//  2. A REST implementation (see HTTPClient) whose BearerTransport attaches
//     the current session token to every request and reports a rejected
//     token through an unauthorized handler.
//  3. A gRPC liveness probe (see GRPCProber) against the standard health
//     service, plus BearerUnaryInterceptor for authenticated gRPC calls.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError. Common conditions unwrap to
// the sentinels in package common and can be matched with errors.Is:
// ErrUnauthorized, ErrInvalidCredentials, ErrUnavailable, ErrMalformedResponse.
//
// All operations accept context.Context and honor cancellation and timeouts.
package client
