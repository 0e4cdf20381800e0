package agentapi

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a 2xx body cannot be decoded or
// lacks a required field.
var ErrMalformedResponse = errors.New("malformed backend response")

// TransportError wraps failures below HTTP: dialing, timeouts, reading the body.
type TransportError struct {
	Op        string
	URL       string
	RequestID string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Op         string
	StatusCode int
	Detail     string
	RequestID  string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, e.Detail)
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsStatus reports whether err is a non-2xx response and returns its code.
func IsStatus(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

// Kind names the failure class for logging.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTransport(err):
		return "transport"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	}
	if _, ok := IsStatus(err); ok {
		return "status"
	}
	return "other"
}
