// Package services contains application services for the scanpack client.
// This file defines the authentication service: backend sign-in, the
// login/logout pair that keeps persisted and in-memory sessions in step,
// and the liveness probe.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/scanpack/internal/client/client"
	"github.com/dmitrijs2005/scanpack/internal/client/models"
	"github.com/dmitrijs2005/scanpack/internal/client/session"
	"github.com/dmitrijs2005/scanpack/internal/common"
	"github.com/dmitrijs2005/scanpack/internal/logging"
)

// SessionPersister writes and erases the persisted session.
type SessionPersister interface {
	SaveSession(ctx context.Context, token string, user models.User) error
	ClearSession(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: exchange credentials with the backend, then Login.
//   - Login: persist the session, then publish it to the in-memory store.
//   - Logout: erase the persisted session and clear the store.
//   - Ping: check backend liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	SignIn(ctx context.Context, identifier string, password []byte) (*models.User, error)
	Login(ctx context.Context, user models.User, token string) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	prober   client.Prober
	sessions SessionPersister
	store    *session.Store
	log      logging.Logger
}

// NewAuthService wires the service. prober may be nil, in which case the
// API client's own health check is used.
func NewAuthService(c client.Client, prober client.Prober, sessions SessionPersister, store *session.Store, log logging.Logger) AuthService {
	if prober == nil {
		prober = c
	}
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, prober: prober, sessions: sessions, store: store, log: log}
}

// SignIn authenticates against the backend. A rejection is returned as is
// and leaves both storage and the store untouched.
func (a *authService) SignIn(ctx context.Context, identifier string, password []byte) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || len(password) == 0 {
		return nil, common.ErrEmptyCredentials
	}

	res, err := a.client.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	if err := a.Login(ctx, res.User, res.Token); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// Login persists first so the store never announces a session that a
// relaunch would not find.
func (a *authService) Login(ctx context.Context, user models.User, token string) error {
	if token == "" || !user.Valid() {
		return common.ErrEmptyCredentials
	}

	if err := a.sessions.SaveSession(ctx, token, user); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := a.store.SetCredentials(user, token); err != nil {
		return err
	}

	a.log.Info(ctx, "logged in", "user_id", user.ID)
	return nil
}

// Logout clears the store even when erasing the persisted session fails.
func (a *authService) Logout(ctx context.Context) error {
	clearErr := a.sessions.ClearSession(ctx)
	a.store.Logout()

	if clearErr != nil {
		a.log.Warn(ctx, "persisted session not cleared", "error", clearErr)
		return fmt.Errorf("clear session: %w", clearErr)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.prober.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
