package backend

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindApplication is a non-2xx response from the backend. Message carries
	// the server's detail text, which may be empty.
	KindApplication Kind = iota + 1
	// KindTransport means no usable response was obtained: connection refused,
	// timeout, or a success body that could not be decoded.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the single error shape returned by Client methods.
type Error struct {
	Kind      Kind
	Op        string // "book-status", "upload", "ask", "health", "clear"
	Status    int    // HTTP status, 0 for transport failures
	Message   string // server-provided detail, never the transport cause
	RequestID string
	Err       error // underlying cause, for logs only
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindApplication:
		if e.Message != "" {
			return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, e.Message)
		}
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from err. Errors that did not originate in this
// package are reported as transport failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	return &Error{Kind: KindTransport, Err: err}
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	be := AsError(err)
	return be != nil && be.Kind == KindTransport
}
