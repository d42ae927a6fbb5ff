// Package cryptox holds the primitives behind the local credential vault:
// password-based key derivation, a verifier for checking a derived key
// without storing it, and AES-GCM sealing of individual values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey (AES-256).
const KeySize = 32

// NonceSize is the AES-GCM nonce length used by Seal.
const NonceSize = 12

// ErrDecrypt is returned by Open when the ciphertext, nonce, key or
// additional data do not match.
var ErrDecrypt = errors.New("decryption failed")

// DeriveKey stretches a passphrase into a KeySize-byte key with argon2id.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// MakeVerifier returns a SHA-256 digest of key. Persisting the verifier lets
// a later open check a re-derived key without the key itself ever hitting disk.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// Seal encrypts plaintext with AES-GCM under key. A fresh random nonce is
// generated for each call and returned next to the ciphertext. additionalData
// is authenticated but not encrypted; pass the same value to Open.
func Seal(key, plaintext, additionalData []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, additionalData)
	return ciphertext, nonce, nil
}

// Open reverses Seal. Any mismatch in key, nonce, ciphertext or
// additionalData yields ErrDecrypt.
func Open(key, ciphertext, nonce, additionalData []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, ErrDecrypt
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
