// Package errors provides coded errors shared by the CLI and the HTTP API.
//
// Every [Error] carries a [Code]. The API sends the code to clients and
// picks the response status from it with [HTTPStatus]; the CLI prints
// [UserMessage].
//
// Coordinate validation has its own codes so that a form can show the
// message next to the field that caused it:
//
//	q, err := coord.ParseChecked("7:2000-1000")
//	if errors.Is(err, errors.ErrCodeInvertedRange) {
//	    // show "start must not exceed end"
//	}
//
// Backend failures are wrapped so the cause survives:
//
//	err := errors.Wrap(errors.ErrCodeStorage, err, "load cytobands for build %s", build)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvertedRange     Code = "INVERTED_RANGE"
	ErrCodeMissingChromosome Code = "MISSING_CHROMOSOME"
	ErrCodeIncompleteRange   Code = "INCOMPLETE_RANGE"
	ErrCodeInvalidSex        Code = "INVALID_SEX"
	ErrCodeInvalidBuild      Code = "INVALID_BUILD"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidCase       Code = "INVALID_CASE"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeReferenceNotFound Code = "REFERENCE_NOT_FOUND"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	ErrCodeStorage     Code = "STORAGE_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// statusByCode lists the API status of every code. Codes not listed map to
// 500.
var statusByCode = map[Code]int{
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidCoordinate: http.StatusBadRequest,
	ErrCodeInvertedRange:     http.StatusBadRequest,
	ErrCodeMissingChromosome: http.StatusBadRequest,
	ErrCodeIncompleteRange:   http.StatusBadRequest,
	ErrCodeInvalidSex:        http.StatusBadRequest,
	ErrCodeInvalidBuild:      http.StatusBadRequest,
	ErrCodeInvalidFormat:     http.StatusBadRequest,
	ErrCodeInvalidCase:       http.StatusBadRequest,
	ErrCodeInvalidPath:       http.StatusBadRequest,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeReferenceNotFound: http.StatusNotFound,
	ErrCodeFileNotFound:      http.StatusNotFound,
	ErrCodeStorage:           http.StatusServiceUnavailable,
	ErrCodeTimeout:           http.StatusGatewayTimeout,
	ErrCodeUnsupported:       http.StatusNotImplemented,
}

// Error is an error with a code and an optional cause.
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

// Is reports whether any Error in err's chain has code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix or cause. Errors
// without a code are returned as is.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus returns the API status for err.
func HTTPStatus(err error) int {
	if s, ok := statusByCode[GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
