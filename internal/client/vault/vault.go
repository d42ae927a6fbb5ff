// Package vault is the client's secure-credential storage: a SQLite file in
// which every value is sealed with AES-256-GCM under a key derived from the
// user's passphrase. Nothing readable is written to disk.
package vault

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scanpack/internal/client/migrations"
	"github.com/dmitrijs2005/scanpack/internal/client/repositories/items"
	"github.com/dmitrijs2005/scanpack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/scanpack/internal/common"
	"github.com/dmitrijs2005/scanpack/internal/cryptox"
	"github.com/dmitrijs2005/scanpack/internal/dbx"
	"github.com/dmitrijs2005/scanpack/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	metaSalt     = "salt"
	metaVerifier = "verifier"
	saltSize     = 32
)

var (
	ErrEmptyPassphrase = errors.New("empty vault passphrase")
	ErrWrongPassphrase = errors.New("wrong vault passphrase")
	ErrCorrupt         = errors.New("vault metadata is corrupt")
)

// Vault seals values before they reach the items table.
type Vault struct {
	db    *sql.DB
	key   []byte
	owned bool
}

// Migrate applies the embedded schema migrations to db.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate vault: %w", err)
	}
	return nil
}

// OpenFile opens (creating if needed) the vault database at path, migrates
// it and unlocks it with passphrase. Close releases the file.
func OpenFile(ctx context.Context, path string, passphrase []byte) (*Vault, error) {
	return openFile(ctx, path, passphrase, Open)
}

// ResetFile is OpenFile for a vault whose passphrase is lost: every sealed
// item is discarded and the vault is re-keyed with passphrase.
func ResetFile(ctx context.Context, path string, passphrase []byte) (*Vault, error) {
	return openFile(ctx, path, passphrase, Reset)
}

func openFile(ctx context.Context, path string, passphrase []byte,
	unlock func(context.Context, *sql.DB, []byte) (*Vault, error)) (*Vault, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("open vault file: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open vault file: %w", err)
	}
	// SQLite serialises writers; one connection keeps transactions simple.
	db.SetMaxOpenConns(1)

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	v, err := unlock(ctx, db, passphrase)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	v.owned = true
	return v, nil
}

// Open unlocks a migrated vault database. The first open of an empty vault
// picks a random salt and records a verifier for the derived key; later
// opens must present the same passphrase or get ErrWrongPassphrase.
func Open(ctx context.Context, db *sql.DB, passphrase []byte) (*Vault, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	meta := metadata.NewSQLiteRepository(db)

	salt, err := meta.Get(ctx, metaSalt)
	if err != nil {
		return nil, err
	}

	if salt == nil {
		return initialize(ctx, db, passphrase)
	}

	savedVerifier, err := meta.Get(ctx, metaVerifier)
	if err != nil {
		return nil, err
	}
	if savedVerifier == nil {
		return nil, ErrCorrupt
	}

	key := cryptox.DeriveKey(passphrase, salt)
	if subtle.ConstantTimeCompare(savedVerifier, cryptox.MakeVerifier(key)) == 0 {
		common.WipeByteArray(key)
		return nil, ErrWrongPassphrase
	}

	return &Vault{db: db, key: key}, nil
}

func initialize(ctx context.Context, db *sql.DB, passphrase []byte) (*Vault, error) {
	return rekey(ctx, db, passphrase, false)
}

// Reset wipes a migrated vault database, items and key metadata alike, in
// one transaction and re-keys it with passphrase.
func Reset(ctx context.Context, db *sql.DB, passphrase []byte) (*Vault, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	return rekey(ctx, db, passphrase, true)
}

func rekey(ctx context.Context, db *sql.DB, passphrase []byte, wipe bool) (*Vault, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := cryptox.DeriveKey(passphrase, salt)

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := metadata.NewSQLiteRepository(tx)
		if wipe {
			if err := items.NewSQLiteRepository(tx).Clear(ctx); err != nil {
				return err
			}
			if err := meta.Clear(ctx); err != nil {
				return err
			}
		}
		if err := meta.Set(ctx, metaSalt, salt); err != nil {
			return err
		}
		return meta.Set(ctx, metaVerifier, cryptox.MakeVerifier(key))
	})
	if err != nil {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("initialize vault: %w", err)
	}

	return &Vault{db: db, key: key}, nil
}

// Close wipes the key and, for vaults opened with OpenFile, closes the
// database.
func (v *Vault) Close() error {
	common.WipeByteArray(v.key)
	if v.owned {
		return v.db.Close()
	}
	return nil
}

// SetItem seals value and stores it under key.
func (v *Vault) SetItem(ctx context.Context, key, value string) error {
	return v.setItem(ctx, items.NewSQLiteRepository(v.db), key, value)
}

// GetItem returns the opened value for key, or ok=false when it is absent.
// A row that fails to open (tampered, or sealed under another key) is an
// error, not an absence.
func (v *Vault) GetItem(ctx context.Context, key string) (string, bool, error) {
	item, err := items.NewSQLiteRepository(v.db).Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if item == nil {
		return "", false, nil
	}

	plaintext, err := cryptox.Open(v.key, item.Value, item.Nonce, []byte(key))
	if err != nil {
		return "", false, fmt.Errorf("open item[%s]: %w", key, err)
	}
	return string(plaintext), true, nil
}

// DeleteItem removes key; a missing key is not an error.
func (v *Vault) DeleteItem(ctx context.Context, key string) error {
	return items.NewSQLiteRepository(v.db).Delete(ctx, key)
}

// SetItems stores all values in one transaction: either every key is
// written or none is.
func (v *Vault) SetItems(ctx context.Context, values map[string]string) error {
	return dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := items.NewSQLiteRepository(tx)
		for key, value := range values {
			if err := v.setItem(ctx, repo, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteItems removes all keys in one transaction.
func (v *Vault) DeleteItems(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := items.NewSQLiteRepository(tx)
		for _, key := range keys {
			if err := repo.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (v *Vault) setItem(ctx context.Context, repo items.Repository, key, value string) error {
	// The item key is bound as additional data so a row copied under a
	// different key fails to open.
	ciphertext, nonce, err := cryptox.Seal(v.key, []byte(value), []byte(key))
	if err != nil {
		return fmt.Errorf("seal item[%s]: %w", key, err)
	}
	return repo.Set(ctx, items.Item{Key: key, Value: ciphertext, Nonce: nonce})
}
