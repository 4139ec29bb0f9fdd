package domain

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the minimum password length accepted at sign-up.
const MinPasswordLength = 6

// emailPattern is intentionally loose: something@something.something.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Credentials is an email/password pair sent to /auth/login and /auth/signup.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewCredentials builds credentials with the email trimmed.
// The password is kept verbatim.
func NewCredentials(email, password string) Credentials {
	return Credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}
}

// ValidateLogin performs the preflight checks used before signing in.
func (c Credentials) ValidateLogin() error {
	if strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Password) == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateSignUp performs the login checks plus the password length rule.
func (c Credentials) ValidateSignUp() error {
	if err := c.ValidateLogin(); err != nil {
		return err
	}
	if len(c.Password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
