// Package common contains shared constants, sentinel errors and small helpers
// used across the scanpack client packages.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound HTTP
	// requests and gRPC metadata.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme prefixes the token inside the Authorization header.
	BearerScheme = "Bearer"

	// RequestIDHeaderName correlates a client request with backend logs.
	RequestIDHeaderName = "X-Request-ID"
)
