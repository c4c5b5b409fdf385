// Package apperr defines the service-wide error taxonomy and its mapping to
// HTTP status codes.
//
// Handlers never leak technical detail to clients: the Kind decides the
// status, the Message is the user-visible text, and the wrapped cause is for
// server-side logs only.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorises an error for status mapping and logging.
type Kind string

const (
	KindValidation     Kind = "VALIDATION"
	KindAuthentication Kind = "AUTHENTICATION"
	KindAuthorization  Kind = "AUTHORIZATION"
	KindAPI            Kind = "API"
	KindDatabase       Kind = "DATABASE"
	KindCache          Kind = "CACHE"
	KindConfiguration  Kind = "CONFIGURATION"
	KindInternal       Kind = "INTERNAL"
)

// Error is a categorised error with a client-safe message.
type Error struct {
	Kind    Kind
	Message string // user-visible
	Err     error  // technical cause, logged server-side only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error's kind to the status code returned to clients.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New builds an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation is shorthand for a client-fixable input error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// KindOf extracts the Kind from err, or KindInternal for uncategorised errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusOf extracts the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// MessageOf extracts the user-visible message for err. Uncategorised errors
// surface a generic message so internals never reach the client.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error occurred"
}
