package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates a dependency is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTransientBroker indicates a broker error that a retry may clear
	// (leader not available, controller moved, request timed out).
	ErrCodeTransientBroker ErrorCode = "TRANSIENT_BROKER_ERROR"
)

// Readiness errors (fatal at startup)
const (
	// ErrCodeRetriesExhausted indicates an operation failed on every allowed attempt.
	ErrCodeRetriesExhausted ErrorCode = "RETRIES_EXHAUSTED"
	// ErrCodeProvisioningFailed indicates topic creation never succeeded.
	ErrCodeProvisioningFailed ErrorCode = "PROVISIONING_FAILED"
	// ErrCodeConvergenceTimeout indicates a topic never appeared in the cluster listing.
	ErrCodeConvergenceTimeout ErrorCode = "CONVERGENCE_TIMEOUT"
	// ErrCodeDependencyUnhealthy indicates a health check never returned 2xx.
	ErrCodeDependencyUnhealthy ErrorCode = "DEPENDENCY_UNHEALTHY_TIMEOUT"
	// ErrCodeCancelled indicates the wait was aborted by its context.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

// Validation and internal errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTransientBroker:    true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsFatalCode reports whether the code must abort startup.
func IsFatalCode(code ErrorCode) bool {
	switch code {
	case ErrCodeProvisioningFailed, ErrCodeConvergenceTimeout, ErrCodeDependencyUnhealthy, ErrCodeCancelled:
		return true
	}
	return false
}
