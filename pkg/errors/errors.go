// Package errors defines coded errors shared by the stores, the mindmap
// engine, the HTTP API and the CLI.
//
// A code travels with the error through wrapping, so the API can answer
// with the right status and {"error", "code"} body, and the client can
// rebuild the same error on the other side:
//
//	err := errors.New(errors.ErrCodeEntityNotFound, "entity %q not found", id)
//	errors.IsNotFound(err)   // true
//	errors.HTTPStatus(err)   // 404
//	errors.UserMessage(err)  // `entity "e9" not found`
//
// Codes are grouped by prefix: INVALID_* for rejected input, *NOT_FOUND for
// missing records, and NETWORK_ERROR, TIMEOUT, STORE_ERROR, INTERNAL_ERROR
// and UNSUPPORTED for failures the caller did not cause.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable part of an [Error].
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidData      Code = "INVALID_DATA"
	ErrCodeInvalidAttribute Code = "INVALID_ATTRIBUTE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidID        Code = "INVALID_ID"
	ErrCodeInvalidName      Code = "INVALID_NAME"

	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeEntityNotFound Code = "ENTITY_NOT_FOUND"
	ErrCodeTypeNotFound   Code = "TYPE_NOT_FOUND"

	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeStore       Code = "STORE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statuses = map[Code]int{
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidData:      http.StatusBadRequest,
	ErrCodeInvalidAttribute: http.StatusBadRequest,
	ErrCodeInvalidFormat:    http.StatusBadRequest,
	ErrCodeInvalidID:        http.StatusBadRequest,
	ErrCodeInvalidName:      http.StatusBadRequest,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeEntityNotFound:   http.StatusNotFound,
	ErrCodeTypeNotFound:     http.StatusNotFound,
	ErrCodeNetwork:          http.StatusBadGateway,
	ErrCodeTimeout:          http.StatusGatewayTimeout,
	ErrCodeUnsupported:      http.StatusNotImplemented,
}

// Error carries a Code, a message for people, and optionally the error
// that caused it.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err's code is code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	return HTTPStatus(err) == http.StatusNotFound
}

// UserMessage returns the message without the code prefix. Errors without
// a code are returned as their full text.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err's code to the status the API responds with. Errors
// without a known code are 500.
func HTTPStatus(err error) int {
	if s, ok := statuses[GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
