// Package errors provides the structured error type shared by the readiness
// components. Every failure that crosses a component boundary is an *AppError
// carrying a machine-readable code and the underlying cause.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Retryable is derived from Code unless a constructor says otherwise.
	Retryable bool `json:"retryable"`
	// HTTPStatus is what /ready would answer if this error kept the
	// service from becoming ready.
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause replaces the cause and returns e for chaining.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one detail entry and returns e for chaining.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// New builds an AppError whose Retryable flag follows IsRetryableCode.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// unavailable builds the 503-class errors the readiness path produces.
// kv is a flat list of detail key/value pairs.
func unavailable(code ErrorCode, cause error, message string, kv ...any) *AppError {
	e := New(code, message, http.StatusServiceUnavailable).WithCause(cause)
	for i := 0; i+1 < len(kv); i += 2 {
		e.WithDetail(fmt.Sprint(kv[i]), kv[i+1])
	}
	return e
}

// TransientBroker wraps a broker error the retry policy may absorb.
func TransientBroker(op string, cause error) *AppError {
	return unavailable(ErrCodeTransientBroker, cause,
		"transient broker error during "+op,
		"operation", op)
}

// RetriesExhausted reports that op failed on every allowed attempt.
func RetriesExhausted(op string, attempts int, cause error) *AppError {
	return unavailable(ErrCodeRetriesExhausted, cause,
		fmt.Sprintf("%s failed after %d attempt(s)", op, attempts),
		"operation", op, "attempts", attempts)
}

func ProvisioningFailed(topics []string, cause error) *AppError {
	return unavailable(ErrCodeProvisioningFailed, cause,
		"could not create topic(s) "+strings.Join(topics, ","),
		"topics", topics)
}

// ConvergenceTimeout reports a topic that never showed up in the listing
// within the attempt budget.
func ConvergenceTimeout(topic string, attempts int, cause error) *AppError {
	return unavailable(ErrCodeConvergenceTimeout, cause,
		fmt.Sprintf("topic %q not visible after %d observation(s)", topic, attempts),
		"topic", topic, "attempts", attempts)
}

// DependencyUnhealthy reports a health check that never answered 2xx.
// lastStatus is 503 when the last check failed at the transport level.
func DependencyUnhealthy(url string, attempts, lastStatus int) *AppError {
	return unavailable(ErrCodeDependencyUnhealthy, nil,
		fmt.Sprintf("%s unhealthy after %d check(s)", url, attempts),
		"url", url, "attempts", attempts, "last_status", lastStatus)
}

// Cancelled reports a wait aborted by its context. It is fatal but never
// confused with exhaustion.
func Cancelled(op string, cause error) *AppError {
	return unavailable(ErrCodeCancelled, cause, op+" cancelled", "operation", op)
}

func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "an unexpected error occurred", http.StatusInternalServerError).WithCause(cause)
}

// HasCode reports whether any AppError in err's chain carries code. Plain
// wrappers between AppErrors are looked through.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	for stderrors.As(err, &appErr) {
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}
