package api

import (
	"encoding/json"
	"fmt"
)

// APIError is a non-2xx response from the backend. Detail carries the
// server's message verbatim so validation errors can be shown to the
// user unchanged.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.StatusCode)
}

// NotFound reports whether the server answered 404, e.g. for an unknown
// or expired session.
func (e *APIError) NotFound() bool { return e.StatusCode == 404 }

// ErrUnreachable indicates the request never produced a response:
// connection refused, DNS failure, timeout. Callers degrade to
// local-only behavior on this error.
type ErrUnreachable struct {
	Err error
}

func (e *ErrUnreachable) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *ErrUnreachable) Unwrap() error { return e.Err }

// ErrInvalidPayload indicates the server answered 2xx but the body did
// not decode or failed schema validation.
type ErrInvalidPayload struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid server payload: %v", e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }
