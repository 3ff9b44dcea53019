package curse

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories the catalog client
// reports. Callers switch on the kind instead of string-matching messages.
type ErrorKind int

const (
	// KindTransport covers network-level failures: connection refused,
	// DNS, timeouts, cancelled contexts.
	KindTransport ErrorKind = iota
	// KindProtocol covers unexpected responses: non-JSON bodies,
	// unexpected shapes, or status codes outside the mapped set.
	KindProtocol
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindRateLimited
)

// String returns a short human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport error"
	case KindProtocol:
		return "protocol error"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindRateLimited:
		return "rate limited"
	}
	return "unknown error"
}

// APIError is the error type returned by every Client operation.
type APIError struct {
	Kind    ErrorKind
	Status  int    // HTTP status code, 0 when the request never completed
	URL     string // request URL
	Message string
	Err     error // underlying cause, if any
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// kindForStatus maps an HTTP status code to an error kind.
// 2xx codes never reach this function.
func kindForStatus(status int) ErrorKind {
	switch status {
	case 401:
		return KindUnauthorized
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	case 429:
		return KindRateLimited
	default:
		return KindProtocol
	}
}
