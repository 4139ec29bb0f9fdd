package handler

import (
	"context"
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
)

// Field limits.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
	MinTitleLength    = 1
	MaxTitleLength    = 255
)

// TokenResponse is the body of a successful POST /auth/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// StatusResponse is the body of GET /.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries a plain detail message.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationResponse carries field-level failures.
type ValidationResponse struct {
	Detail []FieldError `json:"detail"`
}

// FieldError is one validation failure.
type FieldError struct {
	Type string   `json:"type"`
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
}

type credentialsRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type createTodoRequest struct {
	Title *string `json:"title"`
}

func missing(loc ...string) FieldError {
	return FieldError{Type: "missing", Loc: append([]string{"body"}, loc...), Msg: "Field required"}
}

func (r credentialsRequest) validate() []FieldError {
	var errs []FieldError
	switch {
	case r.Email == nil:
		errs = append(errs, missing("email"))
	case !validEmail(*r.Email):
		errs = append(errs, FieldError{
			Type: "value_error",
			Loc:  []string{"body", "email"},
			Msg:  "value is not a valid email address",
		})
	}
	if r.Password == nil {
		errs = append(errs, missing("password"))
	} else if fe, ok := lengthError("password", *r.Password, MinPasswordLength, MaxPasswordLength); !ok {
		errs = append(errs, fe)
	}
	return errs
}

func (r credentialsRequest) credentials() domain.Credentials {
	return domain.NewCredentials(*r.Email, *r.Password)
}

func (r createTodoRequest) validate() []FieldError {
	if r.Title == nil {
		return []FieldError{missing("title")}
	}
	if fe, ok := lengthError("title", *r.Title, MinTitleLength, MaxTitleLength); !ok {
		return []FieldError{fe}
	}
	return nil
}

func validatePatch(p domain.TodoPatch) []FieldError {
	if p.Title == nil {
		return nil
	}
	if fe, ok := lengthError("title", *p.Title, MinTitleLength, MaxTitleLength); !ok {
		return []FieldError{fe}
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func lengthError(field, value string, min, max int) (FieldError, bool) {
	n := utf8.RuneCountInString(value)
	loc := []string{"body", field}
	switch {
	case n < min:
		return FieldError{Type: "string_too_short", Loc: loc, Msg: fmt.Sprintf("String should have at least %d %s", min, plural(min))}, false
	case n > max:
		return FieldError{Type: "string_too_long", Loc: loc, Msg: fmt.Sprintf("String should have at most %d %s", max, plural(max))}, false
	}
	return FieldError{}, true
}

func plural(n int) string {
	if n == 1 {
		return "character"
	}
	return "characters"
}

type userIDKey struct{}

// WithUserID attaches the authenticated user id.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromContext returns the authenticated user id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}
