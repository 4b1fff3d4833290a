package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation rejects bad caller input. Never retried.
func Validation(code string, err error) *Error {
	return New(http.StatusUnprocessableEntity, code, err)
}

// NotFound signals an unknown agent, chat or message identifier.
func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

// Unsupported marks a contract violation against the agent runtime: a message
// shape the normalizer cannot classify. Surfaced to clients as an internal error.
func Unsupported(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}

func Internal(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}

// StatusOf maps any error to the HTTP status and code the handlers should
// report. Non-API errors fall through to a generic 500.
func StatusOf(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := apiErr.Code
		if code == "" {
			code = "internal_error"
		}
		return status, code
	}
	return http.StatusInternalServerError, "internal_error"
}
