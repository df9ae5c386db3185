package service

import (
	"regexp"
	"strings"

	"pollbox/internal/errors"
)

// passwordSpecials is the fixed punctuation set that satisfies the
// special-character requirement.
const passwordSpecials = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// emailRegex requires a local part, exactly one @, no whitespace, and a dot
// in the domain part.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CredentialValidator validates email format and password strength.
type CredentialValidator struct{}

// NewCredentialValidator creates a new credential validator.
func NewCredentialValidator() *CredentialValidator {
	return &CredentialValidator{}
}

// ValidEmail reports whether email has the local@domain.tld shape.
func (v *CredentialValidator) ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength and returns an error naming the
// first missing requirement: at least 8 characters and at least one
// uppercase letter, lowercase letter, digit, and special character.
func (v *CredentialValidator) ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.ErrPasswordTooShort
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return errors.ErrPasswordNoUpper
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return errors.ErrPasswordNoLower
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return errors.ErrPasswordNoDigit
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		return errors.ErrPasswordNoSpecial
	}
	return nil
}

// ValidPassword reports whether password meets every strength requirement.
func (v *CredentialValidator) ValidPassword(password string) bool {
	return v.ValidatePassword(password) == nil
}
