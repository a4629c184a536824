package crypto

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used for the admin basic-auth hash.
const HashCost = 10

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// EncodeHash wraps a native bcrypt hash in base64. The native form contains
// '$', which the env artifact's variable-expansion syntax would mangle, so
// only the encoded form is ever stored.
func EncodeHash(hash string) string {
	return base64.StdEncoding.EncodeToString([]byte(hash))
}

// DecodeHash recovers the native bcrypt hash from its base64 form.
// DecodeHash(EncodeHash(h)) == h for any h.
func DecodeHash(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode password hash: %w", err)
	}
	return string(raw), nil
}

// VerifyPassword reports whether password matches the native bcrypt hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
