package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// NormalizeEmail trims and lower-cases an address and rejects anything that
// is not a bare addr-spec.
func NormalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return "", fmt.Errorf("%w: malformed email %q", ErrValidation, s)
	}

	return s, nil
}
