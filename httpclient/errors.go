package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	ErrCodeTimeout    ErrorCode = iota // request or dial deadline hit
	ErrCodeConnection                  // refused, reset, DNS
	ErrCodeAuth                        // 401 or 403
	ErrCodeNotFound                    // 404
	ErrCodeClient                      // other 4xx, or the request could not be built
	ErrCodeServer                      // 5xx or any other non-2xx
)

var codeNames = [...]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeClient:     "client",
	ErrCodeServer:     "server",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return "unknown"
	}
	return codeNames[c]
}

// Error is a classified HTTP client failure. StatusCode is 0 when the
// request never got an answer.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func transportError(code ErrorCode, err error, retryable bool) *Error {
	return &Error{Code: code, Message: err.Error(), Retryable: retryable, Err: err}
}

func NewTimeoutError(err error) *Error    { return transportError(ErrCodeTimeout, err, true) }
func NewConnectionError(err error) *Error { return transportError(ErrCodeConnection, err, true) }

// NewRequestError reports a request that could not be built. Not retryable.
func NewRequestError(err error) *Error { return transportError(ErrCodeClient, err, false) }

// ClassifyStatusCode maps a response status to an *Error, or nil for 2xx.
// 429 and 5xx are retryable.
func ClassifyStatusCode(statusCode int) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	e := &Error{StatusCode: statusCode, Message: fmt.Sprintf("HTTP %d", statusCode), Code: ErrCodeServer}
	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeClient, true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeClient
	case statusCode >= 500:
		e.Retryable = true
	}
	return e
}

// StatusOf returns the HTTP status behind err. A nil error is 200; a
// failure that never reached the server counts as 503 so health checks can
// treat it like an unhealthy answer.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if e, ok := asError(err); ok && e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusServiceUnavailable
}

func IsTimeout(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeTimeout
}

func IsConnection(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeConnection
}

func IsRetryable(err error) bool {
	e, ok := asError(err)
	return ok && e.Retryable
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
