package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgectl/forge/pkg/crypto"
	"github.com/forgectl/forge/pkg/types"
)

func TestDeriveFromScratch(t *testing.T) {
	creds, err := DeriveOrReuse(types.CredentialSet{}, "correct-horse-battery")
	require.NoError(t, err)

	assert.Len(t, creds.DBPassword, 32)
	assert.Len(t, creds.SigningSecret, 64)
	assert.Len(t, creds.PublicKey, 96)
	assert.Len(t, creds.ServiceKey, 96)
	assert.NotEqual(t, creds.PublicKey, creds.ServiceKey)
	assert.Equal(t, DefaultAdminLogin, creds.AdminLogin)

	hash, err := crypto.DecodeHash(creds.AdminPasswordHashEncoded)
	require.NoError(t, err)
	assert.True(t, crypto.VerifyPassword(hash, "correct-horse-battery"))

	require.NoError(t, creds.Validate())
}

func TestDeriveIsIdempotent(t *testing.T) {
	first, err := DeriveOrReuse(types.CredentialSet{}, "correct-horse-battery")
	require.NoError(t, err)

	// A second pass with the full set must change nothing, even with a
	// different password on the command line.
	second, err := DeriveOrReuse(first, "some-other-password")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDerivePreservesExistingFields(t *testing.T) {
	existing := types.CredentialSet{
		DBPassword: "kept-password-kept-password-kept",
		AdminLogin: "ops",
	}
	creds, err := DeriveOrReuse(existing, "correct-horse-battery")
	require.NoError(t, err)

	assert.Equal(t, existing.DBPassword, creds.DBPassword)
	assert.Equal(t, "ops", creds.AdminLogin)
	assert.NotEmpty(t, creds.SigningSecret)
}

func TestDeriveRequiresAdminPassword(t *testing.T) {
	_, err := DeriveOrReuse(types.CredentialSet{}, "")
	require.Error(t, err)
	assert.True(t, types.IsMissingCredentialError(err))
}
