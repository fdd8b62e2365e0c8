package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures crossing the core boundary. The transport
// layer maps kinds to status codes; the core never emits protocol framing.
type ErrorKind string

const (
	ErrRateLimited       ErrorKind = "rate_limited"
	ErrInvalidFilter     ErrorKind = "invalid_filter"
	ErrNotFound          ErrorKind = "not_found"
	ErrUnsupportedFormat ErrorKind = "unsupported_format"
	ErrMalformedRecord   ErrorKind = "malformed_record"
	ErrStoreUnavailable  ErrorKind = "store_unavailable"
)

// QueryError is the structured error the core returns: a kind plus a message
// safe to show a caller. The wrapped internal error is for logging only.
type QueryError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func NewQueryError(kind ErrorKind, detail string, err error) *QueryError {
	return &QueryError{Kind: kind, Detail: detail, Err: err}
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind, defaulting to ErrStoreUnavailable for
// errors that did not originate in the core.
func KindOf(err error) ErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ErrStoreUnavailable
}
