package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEncodeDecodeRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2"), "expected a native bcrypt hash, got %q", hash)

	encoded := EncodeHash(hash)
	assert.NotContains(t, encoded, "$", "the stored form must be free of expansion sigils")

	decoded, err := DecodeHash(encoded)
	require.NoError(t, err)
	assert.Equal(t, hash, decoded)

	assert.True(t, VerifyPassword(decoded, "hunter2hunter2"))
	assert.False(t, VerifyPassword(decoded, "wrong"))
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestDecodeHashRejectsGarbage(t *testing.T) {
	_, err := DecodeHash("not-base64!!!")
	assert.Error(t, err)
}

func TestRandomToken(t *testing.T) {
	for _, n := range []int{16, 64, 96} {
		tok, err := RandomToken(n)
		require.NoError(t, err)
		assert.Len(t, tok, n)
		assert.NotContains(t, tok, "$")
		assert.NotContains(t, tok, "+")
		assert.NotContains(t, tok, "/")
	}

	a, err := RandomToken(32)
	require.NoError(t, err)
	b, err := RandomToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRandomPassword(t *testing.T) {
	pw, err := RandomPassword(32)
	require.NoError(t, err)
	assert.Len(t, pw, 32)
	assert.NotContains(t, pw, "$")
	for _, c := range pw {
		assert.Contains(t, passwordAlphabet, string(c))
	}
}
