package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnauthenticated          = errors.New("unauthorized")
	ErrMissingToken             = fmt.Errorf("%w: authorization header is required", ErrUnauthenticated)
	ErrForbidden                = errors.New("admin privileges required")
	ErrAuthorizationCheckFailed = errors.New("role verification failed")
	ErrConfiguration            = errors.New("configuration error")
	ErrPersistence              = errors.New("persistence error")
	ErrInvalidRequest           = errors.New("invalid request")
	ErrNotFound                 = errors.New("not found")
	ErrInvalidTransition        = errors.New("invalid ledger transition")
	ErrEmbeddingInProgress      = errors.New("embedding already in progress for query")
	ErrRobotsDisallowed         = errors.New("robots.txt disallows crawling")
	ErrEmptyContent             = errors.New("no extractable content")
	ErrUpstreamRejected         = errors.New("upstream reported failure")
)

// DetailedError attaches a client-facing message and detail string to one of
// the sentinel kinds above.
type DetailedError struct {
	Kind    error
	Message string
	Details string
}

func (e *DetailedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Details == "" {
		return msg
	}
	return msg + ": " + e.Details
}

func (e *DetailedError) Unwrap() error {
	return e.Kind
}

func Describe(kind error, message, details string) error {
	return &DetailedError{Kind: kind, Message: message, Details: details}
}

// ConnectorError is a non-success answer from a third-party API.
type ConnectorError struct {
	Connector  string
	Message    string
	Status     int
	StatusText string
	Details    any
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("%s: upstream status %d %s", e.Connector, e.Status, e.StatusText)
}

type RetryableError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

func IsRetryable(err error) (bool, time.Duration) {
	var re *RetryableError
	if errors.As(err, &re) {
		return true, re.RetryAfter
	}
	return false, 0
}
