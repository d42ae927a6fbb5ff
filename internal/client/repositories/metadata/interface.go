// Package metadata stores the vault's own bookkeeping (key derivation salt
// and key verifier) in the vault_meta table.
package metadata

import (
	"context"
)

// Repository is a plain key/value store. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}
