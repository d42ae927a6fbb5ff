// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Session-level errors.
	ErrEmptyCredentials = errors.New("empty credentials")

	// Storage errors.
	ErrStorageUnavailable = errors.New("secure storage unavailable")

	// Auth errors.
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Transport errors.
	ErrUnavailable       = errors.New("server unavailable")
	ErrMalformedResponse = errors.New("malformed response")
)
