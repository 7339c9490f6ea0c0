package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated indicates no valid session token is available.
	// Every gateway call fails with this before any network I/O happens.
	ErrNotAuthenticated = errors.New("not authenticated: no session token available")
)

// RequestError indicates the backing service rejected a call, either with a
// non-2xx HTTP status or with an envelope reporting success=false.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed (status %d)", e.Status)
}

// ValidationError indicates a client-side precondition failed; the call was
// blocked before reaching the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsRecoverable reports whether the error is a server-side rejection the user
// can retry, as opposed to a missing session or a blocked input.
func IsRecoverable(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
