// Package crypto provides the random material and password hashing used by
// the credential deriver.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

// passwordAlphabet is the character set for generated passwords: alphanumerics
// plus a fixed symbol set that is safe to embed in env and manifest artifacts.
const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#%^*-_"

// RandomBytes returns n cryptographically-secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// RandomToken returns a URL-safe random string of exactly n characters.
func RandomToken(n int) (string, error) {
	// 3 bytes encode to 4 characters; over-provision and cut.
	b, err := RandomBytes((n*3+3)/4 + 3)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}

// RandomPassword returns a random password of n characters drawn from the
// artifact-safe alphabet.
func RandomPassword(n int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
