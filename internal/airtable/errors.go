package airtable

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed request.
type ErrorKind string

// Failure classes reported by FetchError.
const (
	KindNetwork       ErrorKind = "network"
	KindAuth          ErrorKind = "auth"
	KindRateLimit     ErrorKind = "rate_limit"
	KindTableNotFound ErrorKind = "table_not_found"
	KindRequest       ErrorKind = "request"
	KindServer        ErrorKind = "server"
	KindDecode        ErrorKind = "decode"
)

// FetchError is returned for every failed list or find call.
type FetchError struct {
	Table      string
	Op         string
	StatusCode int
	Kind       ErrorKind
	Type       string
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("airtable %s %q: %s", e.Op, e.Table, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Type != "" {
		msg += ": " + e.Type
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

// kindForStatus maps an HTTP status to a failure class.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusNotFound:
		return KindTableNotFound
	case status >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindRequest
	}
}
