package cipher

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNewSymmetric(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = NewSymmetric(make([]byte, 16))
	assert.ErrorIs(t, err, ErrKeySize)
}

func TestNewSymmetricFromBase64(t *testing.T) {
	_, err := NewSymmetricFromBase64(base64.StdEncoding.EncodeToString(testKey()))
	require.NoError(t, err)

	_, err = NewSymmetricFromBase64("not base64!")
	assert.Error(t, err)
}

func TestSymmetricEncryptDecrypt(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	tests := []struct {
		name      string
		aad       []byte
		plaintext []byte
	}{
		{name: "simple value", aad: []byte("env-1:DB_PASSWORD"), plaintext: []byte("hunter2")},
		{name: "empty value", aad: []byte("env-1:EMPTY"), plaintext: []byte("")},
		{name: "long value", aad: []byte("env-1:BLOB"), plaintext: bytes.Repeat([]byte("x"), 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := c.Encrypt(tt.aad, tt.plaintext)
			require.NoError(t, err)
			assert.Equal(t, versionMagic, sealed[0])

			opened, err := c.Decrypt(tt.aad, sealed)
			require.NoError(t, err)
			assert.Equal(t, string(tt.plaintext), string(opened))
		})
	}
}

func TestSymmetricDecryptWrongAAD(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	sealed, err := c.Encrypt([]byte("env-1:A"), []byte("value"))
	require.NoError(t, err)

	_, err = c.Decrypt([]byte("env-2:A"), sealed)
	assert.Error(t, err)
}

func TestSymmetricDecryptMalformed(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	_, err = c.Decrypt(nil, []byte("short"))
	assert.ErrorIs(t, err, ErrShortCiphertext)

	bad := make([]byte, 64)
	bad[0] = 'X'
	_, err = c.Decrypt(nil, bad)
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	a, err := c.Encrypt([]byte("aad"), []byte("same"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("aad"), []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
