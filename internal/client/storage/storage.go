// Package storage persists the session credential pair in a secure
// key/value store so it survives process restarts.
//
// The pair is stored under two fixed keys. Reading treats anything short of
// a complete, decodable pair as "no session": a token without a user, a user
// without a token, or a user value that does not decode.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/scanpack/internal/client/models"
)

const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// SecureStore is the platform secure-credential facility: an encrypted
// key/value store. GetItem reports a missing key with ok=false.
type SecureStore interface {
	SetItem(ctx context.Context, key, value string) error
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	DeleteItem(ctx context.Context, key string) error
}

// BatchStore is implemented by stores that can write or erase several keys
// atomically. SessionStorage prefers it when available.
type BatchStore interface {
	SetItems(ctx context.Context, values map[string]string) error
	DeleteItems(ctx context.Context, keys ...string) error
}

// Session is a persisted credential pair.
type Session struct {
	Token string
	User  models.User
}

// SessionStorage reads and writes the credential pair.
type SessionStorage struct {
	store SecureStore
}

func NewSessionStorage(store SecureStore) *SessionStorage {
	return &SessionStorage{store: store}
}

// SaveSession writes token and the JSON-encoded user. Storage failures are
// returned to the caller.
func (s *SessionStorage) SaveSession(ctx context.Context, token string, user models.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	if batch, ok := s.store.(BatchStore); ok {
		if err := batch.SetItems(ctx, map[string]string{TokenKey: token, UserKey: string(encoded)}); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	}

	if err := s.store.SetItem(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	if err := s.store.SetItem(ctx, UserKey, string(encoded)); err != nil {
		return fmt.Errorf("save session user: %w", err)
	}
	return nil
}

// GetSession returns the stored pair, or (nil, nil) when there is no
// complete, valid pair. Read failures are returned as errors.
func (s *SessionStorage) GetSession(ctx context.Context) (*Session, error) {
	token, ok, err := s.store.GetItem(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if !ok || token == "" {
		return nil, nil
	}

	raw, ok, err := s.store.GetItem(ctx, UserKey)
	if err != nil {
		return nil, fmt.Errorf("read session user: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, nil
	}
	if !user.Valid() {
		return nil, nil
	}

	return &Session{Token: token, User: user}, nil
}

// ClearSession deletes both keys. Missing keys are not an error.
func (s *SessionStorage) ClearSession(ctx context.Context) error {
	if batch, ok := s.store.(BatchStore); ok {
		if err := batch.DeleteItems(ctx, TokenKey, UserKey); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}

	if err := s.store.DeleteItem(ctx, TokenKey); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	if err := s.store.DeleteItem(ctx, UserKey); err != nil {
		return fmt.Errorf("clear session user: %w", err)
	}
	return nil
}
