package domain

import (
	"fmt"
	"strings"
)

// Phase identifies the active SessionState variant.
type Phase string

const (
	// PhaseBootstrapping is the initial phase; no token is known yet.
	PhaseBootstrapping Phase = "bootstrapping"

	// PhaseAuthenticated means a token is durably recorded and mirrored.
	PhaseAuthenticated Phase = "authenticated"

	// PhaseUnauthenticated means no token is held.
	PhaseUnauthenticated Phase = "unauthenticated"
)

// SessionState is the authentication state of the client.
//
// Exactly one phase is active at a time. The zero value is Bootstrapping.
// An Authenticated state always carries a non-empty token; the only way
// to build one is NewAuthenticated.
type SessionState struct {
	phase Phase
	token string
}

// Bootstrapping returns the initial state.
func Bootstrapping() SessionState {
	return SessionState{phase: PhaseBootstrapping}
}

// Unauthenticated returns the logged-out state.
func Unauthenticated() SessionState {
	return SessionState{phase: PhaseUnauthenticated}
}

// NewAuthenticated returns an Authenticated state for token.
// It fails with ErrEmptyToken when token is empty.
func NewAuthenticated(token string) (SessionState, error) {
	if token == "" {
		return SessionState{}, ErrEmptyToken
	}
	return SessionState{phase: PhaseAuthenticated, token: token}, nil
}

// Phase returns the active variant.
func (s SessionState) Phase() Phase {
	if s.phase == "" {
		return PhaseBootstrapping
	}
	return s.phase
}

// Token returns the bearer token and whether the state is Authenticated.
func (s SessionState) Token() (string, bool) {
	if s.phase != PhaseAuthenticated {
		return "", false
	}
	return s.token, true
}

// IsAuthenticated reports whether the state is Authenticated.
func (s SessionState) IsAuthenticated() bool {
	return s.phase == PhaseAuthenticated
}

// IsBootstrapping reports whether the initial token read is still pending.
func (s SessionState) IsBootstrapping() bool {
	return s.Phase() == PhaseBootstrapping
}

// String renders the state with the token masked.
func (s SessionState) String() string {
	if s.phase == PhaseAuthenticated {
		return fmt.Sprintf("%s{token: %s}", s.phase, MaskToken(s.token))
	}
	return string(s.Phase())
}

// MaskToken masks a token for safe display.
// It keeps the first and last three characters of long tokens.
// Example: eyJ...x9Q
func MaskToken(token string) string {
	token = strings.TrimPrefix(token, "Bearer ")
	if len(token) < 10 {
		return "***REDACTED***"
	}
	return token[:3] + "..." + token[len(token)-3:]
}
