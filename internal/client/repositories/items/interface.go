package items

import (
	"context"
)

// Item is one sealed value.
type Item struct {
	Key   string
	Value []byte
	Nonce []byte
}

// Repository stores sealed items by key.
type Repository interface {
	// Get returns (nil, nil) when the key does not exist.
	Get(ctx context.Context, key string) (*Item, error)

	// Set inserts or replaces the item.
	Set(ctx context.Context, item Item) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every item.
	Clear(ctx context.Context) error
}
