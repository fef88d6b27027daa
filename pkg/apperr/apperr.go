// Package apperr defines the error taxonomy shared by the payment and
// reporting engines and the HTTP boundary. Every business-rule failure carries
// a kind (mapped to an HTTP status at the boundary) and a stable
// machine-readable code for client consumption.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal covers infrastructure failures; surfaced as 500.
	KindInternal Kind = iota
	// KindBadRequest covers malformed numeric or date input; surfaced as 400.
	KindBadRequest
	// KindForbidden covers wrong role or wrong ownership; surfaced as 403.
	KindForbidden
	// KindNotFound covers missing records on simple lookups; surfaced as 404.
	KindNotFound
	// KindInvalidOperation covers business-rule violations inside a
	// transactional operation; surfaced as 400.
	KindInvalidOperation
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidOperation:
		return "invalid_operation"
	default:
		return "internal"
	}
}

// Error is a tagged domain error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Code, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Code, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a tagged error with a stable code and a human-readable message.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap tags an underlying error with a kind and code.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// KindOf extracts the kind from err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf extracts the stable code from err, or "internal" for untagged errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}
