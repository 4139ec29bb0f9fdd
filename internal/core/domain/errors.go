// Package domain defines the core client-side models of the todo app.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a client error with a structured error code.
// Codes follow the format TD-{CLASS}-{NNNN}.
type DomainError struct {
	Code    string // Error code (e.g., "TD-VAL-4001")
	Message string // Short machine-oriented message
	Details string // Optional human-readable details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support by comparing codes.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// validationCodePrefix marks the preflight validation class.
const validationCodePrefix = "TD-VAL-"

// IsValidation reports whether err is a preflight validation error.
// Validation errors are raised before any network call is attempted.
func IsValidation(err error) bool {
	return strings.HasPrefix(GetErrorCode(err), validationCodePrefix)
}

// ============================================================================
// Validation Errors (VAL)
// ============================================================================

var (
	// ErrMissingFields indicates a blank email or password.
	ErrMissingFields = NewDomainError("TD-VAL-4001", "missing fields").
				WithDetails("Please enter both email and password.")

	// ErrInvalidEmail indicates the email does not look like an address.
	ErrInvalidEmail = NewDomainError("TD-VAL-4002", "invalid email").
			WithDetails("Please enter a valid email address.")

	// ErrWeakPassword indicates the password is below the minimum length.
	ErrWeakPassword = NewDomainError("TD-VAL-4003", "weak password").
			WithDetails(fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength))
)

// ============================================================================
// Session Errors (SESS)
// ============================================================================

var (
	// ErrBootstrapPending indicates a session operation was attempted
	// before the initial token read completed.
	ErrBootstrapPending = NewDomainError("TD-SESS-4090", "session bootstrap pending")

	// ErrAlreadyBootstrapped indicates Bootstrap was invoked a second time.
	ErrAlreadyBootstrapped = NewDomainError("TD-SESS-4091", "session already bootstrapped")

	// ErrSignUpIncomplete indicates registration succeeded but the
	// follow-up login failed. The cause is the login error.
	ErrSignUpIncomplete = NewDomainError("TD-SESS-5020", "account registered but login failed")

	// ErrEmptyToken indicates an empty token was offered as a credential.
	ErrEmptyToken = NewDomainError("TD-SESS-5021", "empty session token")
)

// ============================================================================
// Storage Errors (STOR)
// ============================================================================

var (
	// ErrStorage indicates the durable token store failed.
	ErrStorage = NewDomainError("TD-STOR-5000", "token storage error")
)
