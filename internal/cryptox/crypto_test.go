package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"))
	key2 := DeriveKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestMakeVerifier_StableAndDistinct(t *testing.T) {
	k := bytes.Repeat([]byte{7}, KeySize)

	assert.Equal(t, MakeVerifier(k), MakeVerifier(k))
	assert.Len(t, MakeVerifier(k), 32)
	assert.NotEqual(t, k, MakeVerifier(k))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{1}, KeySize)
	aad := []byte("auth_token")

	ct, nonce, err := Seal(key, []byte("abc123"), aad)
	require.NoError(t, err)
	require.Len(t, nonce, NonceSize)
	assert.NotContains(t, string(ct), "abc123")

	pt, err := Open(key, ct, nonce, aad)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc123"), pt)
}

func TestSeal_FreshNonceEachCall(t *testing.T) {
	key := bytes.Repeat([]byte{1}, KeySize)

	_, n1, err := Seal(key, []byte("x"), nil)
	require.NoError(t, err)
	_, n2, err := Seal(key, []byte("x"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, n1, n2)
}

func TestOpen_Failures(t *testing.T) {
	key := bytes.Repeat([]byte{1}, KeySize)
	other := bytes.Repeat([]byte{2}, KeySize)

	ct, nonce, err := Seal(key, []byte("payload"), []byte("auth_user"))
	require.NoError(t, err)

	tampered := append([]byte(nil), ct...)
	tampered[0] ^= 0xFF

	tests := []struct {
		name  string
		key   []byte
		ct    []byte
		nonce []byte
		aad   []byte
	}{
		{name: "wrong key", key: other, ct: ct, nonce: nonce, aad: []byte("auth_user")},
		{name: "wrong additional data", key: key, ct: ct, nonce: nonce, aad: []byte("auth_token")},
		{name: "tampered ciphertext", key: key, ct: tampered, nonce: nonce, aad: []byte("auth_user")},
		{name: "short nonce", key: key, ct: ct, nonce: nonce[:4], aad: []byte("auth_user")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.key, tt.ct, tt.nonce, tt.aad)
			require.ErrorIs(t, err, ErrDecrypt)
		})
	}
}

func TestSeal_InvalidKeyLength(t *testing.T) {
	_, _, err := Seal([]byte("short"), []byte("x"), nil)
	require.Error(t, err)
}
