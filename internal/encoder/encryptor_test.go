package encoder

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncryptorRequiresPassword(t *testing.T) {
	_, err := NewEncryptor("")
	assert.EqualError(t, err, "password is required")
}

func TestEncryptDecrypt(t *testing.T) {
	enc, err := NewEncryptor("s3cret")
	require.NoError(t, err)

	plain := []byte(`{"collectionName":"users","data":[]}`)

	sealed, err := enc.Encrypt(plain)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, []byte("users")))
	assert.True(t, bytes.HasPrefix(sealed, []byte("age-encryption.org/v1")))

	opened, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestDecryptWrongPassword(t *testing.T) {
	enc, err := NewEncryptor("right")
	require.NoError(t, err)
	sealed, err := enc.Encrypt([]byte("payload"))
	require.NoError(t, err)

	other, err := NewEncryptor("wrong")
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	assert.ErrorContains(t, err, "wrong password")
}
