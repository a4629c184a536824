package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// placeholderEmails are addresses the certificate authority rejects or that
// clearly were never meant to receive expiry notices.
var placeholderEmails = map[string]bool{
	"test@test.test":             true,
	"test@test.com":              true,
	"test@example.com":           true,
	"user@example.com":           true,
	"admin@example.com":          true,
	"email@example.com":          true,
	"your-email@example.com":     true,
	"changeme@example.com":       true,
}

// TLSEmail checks that a certificate contact address is syntactically valid
// and not a known placeholder.
func TLSEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("tls email %q is not a valid address", email)
	}
	if placeholderEmails[strings.ToLower(email)] {
		return fmt.Errorf("tls email %q is a placeholder address", email)
	}
	if strings.HasSuffix(strings.ToLower(email), "@example.com") ||
		strings.HasSuffix(strings.ToLower(email), "@example.org") {
		return fmt.Errorf("tls email %q uses a reserved example domain", email)
	}
	return nil
}
