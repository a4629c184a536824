// Package credentials derives the credential set embedded in the artifacts.
//
// Derivation is idempotent: any non-empty field of the existing set is
// preserved verbatim, only missing fields are generated. Re-running the
// engine therefore never rotates a secret behind the user's back.
package credentials

import (
	"github.com/forgectl/forge/pkg/crypto"
	"github.com/forgectl/forge/pkg/types"
)

// Generated credential lengths. All exceed the accepted minimums so values
// survive round-trips through stricter validators.
const (
	dbPasswordLength    = 32
	signingSecretLength = 64
	serviceKeyLength    = 96
)

// DefaultAdminLogin is used when no admin login was ever configured.
const DefaultAdminLogin = "admin"

// DeriveOrReuse fills the missing fields of existing from a cryptographically
// secure source. adminPassword is only consulted when no admin hash exists
// yet; an empty password with no stored hash is a MissingCredentialError.
func DeriveOrReuse(existing types.CredentialSet, adminPassword string) (types.CredentialSet, error) {
	out := existing

	if out.DBPassword == "" {
		pw, err := crypto.RandomPassword(dbPasswordLength)
		if err != nil {
			return types.CredentialSet{}, err
		}
		out.DBPassword = pw
	}

	if out.SigningSecret == "" {
		secret, err := crypto.RandomToken(signingSecretLength)
		if err != nil {
			return types.CredentialSet{}, err
		}
		out.SigningSecret = secret
	}

	// Public and service keys are independent random values; downstream
	// services mint their own tokens from the signing secret.
	if out.PublicKey == "" {
		key, err := crypto.RandomToken(serviceKeyLength)
		if err != nil {
			return types.CredentialSet{}, err
		}
		out.PublicKey = key
	}
	if out.ServiceKey == "" {
		key, err := crypto.RandomToken(serviceKeyLength)
		if err != nil {
			return types.CredentialSet{}, err
		}
		out.ServiceKey = key
	}

	if out.AdminLogin == "" {
		out.AdminLogin = DefaultAdminLogin
	}

	if out.AdminPasswordHashEncoded == "" {
		if adminPassword == "" {
			return types.CredentialSet{}, &types.MissingCredentialError{Field: "admin_password"}
		}
		hash, err := crypto.HashPassword(adminPassword)
		if err != nil {
			return types.CredentialSet{}, err
		}
		out.AdminPasswordHashEncoded = crypto.EncodeHash(hash)
	}

	return out, nil
}
