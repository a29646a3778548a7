package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request.
type Kind string

const (
	// KindNetwork means no response was received (timeout, refused, DNS).
	KindNetwork Kind = "network"
	// KindServer means the backend answered with a 4xx/5xx other than 401.
	KindServer Kind = "server"
	// KindAuth means the backend answered 401. Credentials have already
	// been cleared by the time the caller sees this.
	KindAuth Kind = "auth"
)

// Error is the single error shape returned by Session calls.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status; 0 for network errors
	Message string // human-readable, verbatim from the server when it sent one
	Err     error  // underlying transport error, if any
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api %s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == k
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == http.StatusNotFound
}

// NetworkMessage is shown for KindNetwork failures.
const NetworkMessage = "Could not reach the server. Please try again later."

// UserMessage returns text suitable for a banner. Server messages pass
// through verbatim; network failures get a generic retry hint.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	apiErr, ok := AsError(err)
	if !ok {
		return "Something went wrong. Please try again."
	}
	switch apiErr.Kind {
	case KindNetwork:
		return NetworkMessage
	case KindAuth:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Your session has expired. Please sign in again."
	default:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.Status)
	}
}
