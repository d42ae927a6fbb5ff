package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scanpack/internal/common"
)

type unavailableStore struct {
	cause error
}

// Unavailable returns a SecureStore whose every call fails with
// common.ErrStorageUnavailable wrapping cause. It stands in when the real
// facility could not be opened, so reads fail (and the gate treats that as
// no session) and writes surface the problem to the user.
func Unavailable(cause error) SecureStore {
	return unavailableStore{cause: cause}
}

func (u unavailableStore) err() error {
	return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, u.cause)
}

func (u unavailableStore) SetItem(context.Context, string, string) error { return u.err() }

func (u unavailableStore) GetItem(context.Context, string) (string, bool, error) {
	return "", false, u.err()
}

func (u unavailableStore) DeleteItem(context.Context, string) error { return u.err() }
