package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
)

// Kind classifies a failed call.
type Kind int

const (
	KindNetworkUnreachable Kind = iota + 1
	KindHTTPStatus
	KindRequestFailedLocally
)

func (k Kind) String() string {
	switch k {
	case KindNetworkUnreachable:
		return "network unreachable"
	case KindHTTPStatus:
		return "http status"
	case KindRequestFailedLocally:
		return "request failed locally"
	default:
		return "unknown"
	}
}

// invalidInputMessage replaces validation entries that carry no msg.
const invalidInputMessage = "Invalid input"

// Error is the result of a failed call.
type Error struct {
	Kind   Kind
	Method string
	Path   string

	// StatusCode is set for KindHTTPStatus.
	StatusCode int
	// Detail is the server-supplied detail, or the canonical message for
	// the status class when the server sent none. Empty means no detail.
	Detail string
	// Entries holds the per-entry messages when the server sent a list of
	// validation entries; Detail is then their newline-joined form.
	Entries []string

	// Message describes a local failure.
	Message string
	Cause   error

	canonical bool
}

// Sentinels for errors.Is. A sentinel with StatusCode 0 matches any status.
var (
	ErrNetworkUnreachable   = &Error{Kind: KindNetworkUnreachable}
	ErrRequestFailedLocally = &Error{Kind: KindRequestFailedLocally}
	ErrHTTPStatus           = &Error{Kind: KindHTTPStatus}
	ErrBadRequest           = &Error{Kind: KindHTTPStatus, StatusCode: http.StatusBadRequest}
	ErrUnauthorized         = &Error{Kind: KindHTTPStatus, StatusCode: http.StatusUnauthorized}
	ErrNotFound             = &Error{Kind: KindHTTPStatus, StatusCode: http.StatusNotFound}
)

func (e *Error) Error() string {
	prefix := "gateway: " + e.Method + " " + e.Path
	switch e.Kind {
	case KindHTTPStatus:
		if e.Detail != "" {
			return fmt.Sprintf("%s: HTTP %d: %s", prefix, e.StatusCode, strings.ReplaceAll(e.Detail, "\n", "; "))
		}
		return fmt.Sprintf("%s: HTTP %d", prefix, e.StatusCode)
	case KindNetworkUnreachable:
		if e.Cause != nil {
			return prefix + ": network unreachable: " + e.Cause.Error()
		}
		return prefix + ": network unreachable"
	default:
		msg := e.Message
		if e.Cause != nil {
			msg += ": " + e.Cause.Error()
		}
		return prefix + ": request failed locally: " + msg
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind and, when the target sets one, on status code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.StatusCode == 0 || t.StatusCode == e.StatusCode
}

// ServerDetail reports the detail the server supplied, excluding the
// canonical fallback.
func (e *Error) ServerDetail() (string, bool) {
	if e.Kind != KindHTTPStatus || e.canonical || e.Detail == "" {
		return "", false
	}
	return e.Detail, true
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// StatusCode returns the HTTP status of err, or 0 if err is not an
// HTTPStatus error.
func StatusCode(err error) int {
	if ge, ok := AsError(err); ok && ge.Kind == KindHTTPStatus {
		return ge.StatusCode
	}
	return 0
}

func networkError(method, path string, cause error) *Error {
	return &Error{Kind: KindNetworkUnreachable, Method: method, Path: path, Cause: cause}
}

func localError(method, path, message string, cause error) *Error {
	return &Error{Kind: KindRequestFailedLocally, Method: method, Path: path, Message: message, Cause: cause}
}

// statusError builds an HTTPStatus error from a response body.
func statusError(method, path string, code int, body []byte) *Error {
	e := &Error{Kind: KindHTTPStatus, Method: method, Path: path, StatusCode: code}
	if detail, entries, ok := parseDetail(body); ok {
		e.Detail = detail
		e.Entries = entries
		return e
	}
	e.Detail = canonicalDetail(code)
	e.canonical = e.Detail != ""
	return e
}

// parseDetail extracts {"detail": ...}. A non-empty string is used as
// is; a non-empty list is flattened to each entry's msg.
func parseDetail(body []byte) (string, []string, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) == 0 || json.Unmarshal(body, &envelope) != nil || len(envelope.Detail) == 0 {
		return "", nil, false
	}

	var s string
	if json.Unmarshal(envelope.Detail, &s) == nil {
		return s, nil, s != ""
	}

	var list []json.RawMessage
	if json.Unmarshal(envelope.Detail, &list) != nil || len(list) == 0 {
		return "", nil, false
	}
	entries := make([]string, len(list))
	for i, raw := range list {
		var entry struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(raw, &entry) == nil && entry.Msg != "" {
			entries[i] = entry.Msg
		} else {
			entries[i] = invalidInputMessage
		}
	}
	return strings.Join(entries, "\n"), entries, true
}

func canonicalDetail(code int) string {
	switch {
	case code == http.StatusUnauthorized:
		return "unauthorized"
	case code == http.StatusBadRequest:
		return "bad request"
	case code >= 500:
		return "server error"
	default:
		return ""
	}
}

// User-facing messages.
const (
	MessageNetwork      = "Cannot reach server. Please check your internet or backend URL."
	MessageUnauthorized = "Unauthorized. Please login again."
	MessageBadRequest   = "Bad request."
	MessageServer       = "Server error. Try again later."
	MessageFallback     = "Something went wrong"
)

// UserMessage turns err into text suitable for a notification.
//
// Unreachable servers get a connectivity hint, server-supplied details
// are shown as sent, and well-known statuses get a fixed sentence.
// Preflight validation errors show their details. Anything else yields
// fallback (or a generic message when fallback is empty).
func UserMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = MessageFallback
	}
	if err == nil {
		return fallback
	}

	if ge, ok := AsError(err); ok {
		switch ge.Kind {
		case KindNetworkUnreachable:
			return MessageNetwork
		case KindHTTPStatus:
			if detail, ok := ge.ServerDetail(); ok {
				return detail
			}
			switch {
			case ge.StatusCode == http.StatusUnauthorized:
				return MessageUnauthorized
			case ge.StatusCode == http.StatusBadRequest:
				return MessageBadRequest
			case ge.StatusCode >= 500:
				return MessageServer
			}
		}
		return fallback
	}

	var de *domain.DomainError
	if domain.IsValidation(err) && errors.As(err, &de) && de.Details != "" {
		return de.Details
	}
	return fallback
}
