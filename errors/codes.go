package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Service errors reported by the transcription endpoint.
const (
	// ErrCodeBadRequest indicates a malformed or semantically invalid request.
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	// ErrCodeConflict indicates the job name is already in use.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeInternalFailure indicates a server-side fault.
	ErrCodeInternalFailure ErrorCode = "INTERNAL_FAILURE"
	// ErrCodeLimitExceeded indicates throttling or oversized media.
	ErrCodeLimitExceeded ErrorCode = "LIMIT_EXCEEDED"
	// ErrCodeNotFound indicates the requested job does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUnknown indicates an error the client could not classify.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

// Client-side errors
const (
	// ErrCodeValidation indicates a request failed local validation and was never sent.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeJobFailed indicates a waited-on job finished in the FAILED state.
	ErrCodeJobFailed ErrorCode = "JOB_FAILED"
)

// Transport errors (retryable unless noted)
const (
	// ErrCodeTimeout indicates the request timed out or was canceled.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeConnectionFailed indicates the endpoint could not be reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeServiceUnavailable indicates a local limiter or breaker refused the call.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeUnauthorized indicates the credentials were rejected. Not retryable.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeInternalFailure:    true,
	ErrCodeLimitExceeded:      true,
	ErrCodeTimeout:            true,
	ErrCodeConnectionFailed:   true,
	ErrCodeServiceUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
