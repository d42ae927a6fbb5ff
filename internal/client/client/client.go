package client

import (
	"context"

	"github.com/dmitrijs2005/scanpack/internal/client/models"
)

// Client is the backend API used by the services layer.
type Client interface {
	Login(ctx context.Context, identifier string, password []byte) (*models.LoginResult, error)
	Ping(ctx context.Context) error
	GetJSON(ctx context.Context, path string, out any) error
	Close() error
}

// Prober reports backend liveness.
type Prober interface {
	Ping(ctx context.Context) error
}

// TokenSource yields the current bearer token, or "" when signed out.
type TokenSource interface {
	Token() string
}
