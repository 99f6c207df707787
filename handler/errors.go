package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with an HTTP status, a stable machine readable key
// and an optional user facing message.
type HTTPError struct {
	Code    int
	Key     string
	Message string
	cause   error
}

func (e HTTPError) Error() string {
	if e.cause != nil {
		return e.Key + ": " + e.cause.Error()
	}
	return e.Key
}

func (e HTTPError) Unwrap() error { return e.cause }

// Is matches HTTPErrors by code and key, ignoring message and cause.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Code == e.Code && t.Key == e.Key
}

// Wrap returns a copy of e carrying cause.
func (e HTTPError) Wrap(cause error) HTTPError {
	e.cause = cause
	return e
}

// WithMessage returns a copy of e with a user facing message.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// Text returns the user facing message, falling back to the status text.
func (e HTTPError) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code)
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrForbidden           = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrConflict            = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrUnprocessableEntity = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
	ErrTooManyRequests     = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
)

// ErrorMapper translates a domain error into an HTTPError.
type ErrorMapper func(err error) (HTTPError, bool)

// MapErrorTo returns an ErrorMapper that maps anything matching target to e.
func MapErrorTo(target error, e HTTPError) ErrorMapper {
	return func(err error) (HTTPError, bool) {
		if errors.Is(err, target) {
			return e.Wrap(err), true
		}
		return HTTPError{}, false
	}
}

// MapError classifies err. ValidationError and HTTPError are recognised
// first, then mappers are tried in order. Unknown errors become
// ErrInternalServerError.
func MapError(err error, mappers ...ErrorMapper) HTTPError {
	var verr ValidationError
	if errors.As(err, &verr) {
		return ErrUnprocessableEntity.WithMessage("Validation failed").Wrap(err)
	}
	var herr HTTPError
	if errors.As(err, &herr) {
		return herr
	}
	for _, m := range mappers {
		if h, ok := m(err); ok {
			return h
		}
	}
	return ErrInternalServerError.Wrap(err)
}
