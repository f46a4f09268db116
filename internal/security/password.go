package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 12

// ErrWeakPassword is returned when a password fails the strength gate.
// The wrapped message lists the specific failing criteria.
var ErrWeakPassword = errors.New("password too weak")

// IsStrongPassword reports whether the password meets all strength
// requirements: length ≥ 12, at least one uppercase letter, one lowercase
// letter, and one digit.
func IsStrongPassword(password string) bool {
	return ValidatePassword(password) == nil
}

// ValidatePassword checks the password against the strength requirements
// and returns ErrWeakPassword listing every failing criterion.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: must not be empty", ErrWeakPassword)
	}

	var missing []string
	if len(password) < MinPasswordLength {
		missing = append(missing, fmt.Sprintf("at least %d characters", MinPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		missing = append(missing, "an uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "a lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "a digit")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: needs %s", ErrWeakPassword, strings.Join(missing, ", "))
	}
	return nil
}
