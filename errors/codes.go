package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Check execution errors
const (
	// ErrCodeCheckFailed indicates a component's health check returned an error.
	ErrCodeCheckFailed ErrorCode = "CHECK_FAILED"
	// ErrCodeCheckPanic indicates a component's health check panicked.
	ErrCodeCheckPanic ErrorCode = "CHECK_PANIC"
	// ErrCodeHandlerFailed indicates a component's failure handler itself failed.
	ErrCodeHandlerFailed ErrorCode = "HANDLER_FAILED"
	// ErrCodeInvalidStatus indicates a check returned a status outside the enumeration.
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"
)

// Connection/Availability errors (retryable)
const (
	// ErrCodeConnectionFailed indicates a failed connection to a dependency.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the check exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCircuitOpen indicates the check was short-circuited by an open breaker.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
)

// Request errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeCircuitOpen:      true,
	ErrCodeCheckFailed:      true,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
