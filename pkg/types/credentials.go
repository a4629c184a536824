package types

import (
	"encoding/base64"
	"strings"
)

// Credential length floors. Generation produces longer values; these are the
// minimums accepted on reuse.
const (
	MinDBPasswordLength    = 24
	MinSigningSecretLength = 32
	MinServiceKeyLength    = 96
)

// CredentialSet holds every secret the artifacts embed. Fields are preserved
// verbatim across runs once set; only missing fields are ever generated.
type CredentialSet struct {
	DBPassword    string `json:"dbPassword" yaml:"dbPassword"`
	SigningSecret string `json:"signingSecret" yaml:"signingSecret"`
	PublicKey     string `json:"publicKey" yaml:"publicKey"`
	ServiceKey    string `json:"serviceKey" yaml:"serviceKey"`
	AdminLogin    string `json:"adminLogin" yaml:"adminLogin"`

	// AdminPasswordHashEncoded is the bcrypt hash of the admin password in a
	// sigil-free base64 encoding: the native hash contains '$', which the env
	// artifact's expansion syntax would otherwise try to interpolate. It is
	// decoded back to the native form only when embedded into the proxy file.
	AdminPasswordHashEncoded string `json:"adminPasswordHashEncoded" yaml:"adminPasswordHashEncoded"`
}

// Validate checks a fully-derived credential set.
func (c CredentialSet) Validate() error {
	if len(c.DBPassword) < MinDBPasswordLength {
		return NewValidationError("db password is too short")
	}
	if len(c.SigningSecret) < MinSigningSecretLength {
		return NewValidationError("signing secret must be at least 32 characters")
	}
	if len(c.PublicKey) < MinServiceKeyLength {
		return NewValidationError("public key is too short")
	}
	if len(c.ServiceKey) < MinServiceKeyLength {
		return NewValidationError("service key is too short")
	}
	if c.AdminLogin == "" {
		return NewValidationError("admin login is required")
	}
	if c.AdminPasswordHashEncoded == "" {
		return &MissingCredentialError{Field: "admin_password_hash"}
	}

	hash, err := base64.StdEncoding.DecodeString(c.AdminPasswordHashEncoded)
	if err != nil {
		return NewValidationError("admin password hash is not valid base64")
	}
	if !strings.HasPrefix(string(hash), "$2") {
		return NewValidationError("admin password hash is not a bcrypt hash")
	}
	return nil
}
