package rippling

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	// ErrTransport indicates the call could not complete
	ErrTransport = errors.New("rippling: transport failure")
	// ErrRejectedStatus indicates the response status was not accepted
	ErrRejectedStatus = errors.New("rippling: rejected status")
	// ErrDecode indicates an accepted response body did not match the expected shape
	ErrDecode = errors.New("rippling: decode failure")
)

// Kind classifies an Error.
type Kind int

const (
	// KindTransport is a DNS, connect, TLS, timeout or write failure
	KindTransport Kind = iota + 1
	// KindStatus is a response whose status is outside the accepted set
	KindStatus
	// KindDecode is an accepted response whose body could not be decoded
	KindDecode
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

const snippetLimit = 256

// Error is returned for every failed call made through a Request or Response.
type Error struct {
	Kind       Kind
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("rippling: %s %s: %v", e.Method, e.URL, e.Err)
	case KindStatus:
		return fmt.Sprintf("rippling: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Snippet())
	case KindDecode:
		return fmt.Sprintf("rippling: %s %s: failed to decode response: %v", e.Method, e.URL, e.Err)
	default:
		return fmt.Sprintf("rippling: %s %s: %v", e.Method, e.URL, e.Err)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrRejectedStatus:
		return e.Kind == KindStatus
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// IsNotFound checks if the error is a 404 response
func (e *Error) IsNotFound() bool {
	return e.Kind == KindStatus && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindStatus &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Snippet returns the body truncated for log output.
func (e *Error) Snippet() string {
	if len(e.Body) <= snippetLimit {
		return e.Body
	}
	return e.Body[:snippetLimit] + "..."
}
