// Package apperr defines the typed errors the repository layer returns.
// Each error carries a Kind the HTTP layer maps onto a status code and an Op
// naming the operation that produced it.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnavailable
	KindInternal
)

// Error is the concrete error type crossing layer boundaries.
type Error struct {
	Kind    Kind
	Message string
	Op      string
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// HTTPStatus maps the Kind onto the response code the caller sees.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// WithOp stamps the operation name and returns the error for chaining.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// Validation flags bad caller input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Unavailable flags a dependency that is not provisioned or not reachable,
// the degraded-mode signal for lookups when the shared store is absent.
func Unavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

// Internal flags a failure the caller can do nothing about.
func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}
