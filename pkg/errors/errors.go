// Package errors defines the coded errors shared by the discograph client,
// explorer and API.
//
// Every failure that crosses a package boundary carries a [Code]. The API
// turns the code into an HTTP status and the CLI prints only the message:
//
//	err := errors.New(errors.ErrCodeInvalidInput, "min year %d above max year %d", lo, hi)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // reject the request
//	}
//
//	err = errors.Wrap(errors.ErrCodeTransport, cause, "fetch discoveries for %s", topic)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidTopic  Code = "INVALID_TOPIC"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeNotExpandable Code = "NOT_EXPANDABLE"

	// Backend failures. The explorer leaves its graph untouched on these.
	ErrCodeTransport Code = "TRANSPORT_ERROR"
	ErrCodeTimeout   Code = "TIMEOUT"
	ErrCodeStorage   Code = "STORAGE_ERROR"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Status is the HTTP status the API answers with for c.
func (c Code) Status() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidTopic, ErrCodeInvalidFormat:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeTransport, ErrCodeStorage:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause.
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
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and cause for display.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to a response status. Uncoded errors are 500.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}
