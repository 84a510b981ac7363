package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error domains.
const (
	// DomainService marks errors reported by the remote endpoint.
	DomainService = "transcribe"
	// DomainClient marks errors produced locally before or around transmission.
	DomainClient = "transcribe.client"
)

// AppError is the unified error type.
type AppError struct {
	// Domain is DomainService or DomainClient.
	Domain string `json:"domain"`
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the HTTP status returned by the endpoint (0 for local errors).
	HTTPStatus int `json:"-"`
	// ServiceType is the raw exception type reported by the server, if any.
	ServiceType string `json:"service_type,omitempty"`
	// RequestID is the server-assigned request id, if any.
	RequestID string `json:"request_id,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RequestID != "" {
		msg += fmt.Sprintf(" (request id: %s)", e.RequestID)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithRequestID records the server request id and returns the receiver.
func (e *AppError) WithRequestID(id string) *AppError {
	e.RequestID = id
	return e
}

// New creates a client-domain AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Domain:    DomainClient,
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Service errors ---

// FromService builds a service-domain error from a classified exception.
func FromService(code ErrorCode, serviceType, message string, httpStatus int) *AppError {
	if message == "" {
		message = defaultMessages[code]
	}
	return &AppError{
		Domain:      DomainService,
		Code:        code,
		Message:     message,
		Retryable:   IsRetryableCode(code),
		HTTPStatus:  httpStatus,
		ServiceType: serviceType,
	}
}

var defaultMessages = map[ErrorCode]string{
	ErrCodeBadRequest:      "The request was rejected by the service. Check the input fields and resend.",
	ErrCodeConflict:        "A job with this name already exists. Resend with a different name.",
	ErrCodeInternalFailure: "The service hit an internal error. Try the request again.",
	ErrCodeLimitExceeded:   "Too many requests or the media is too long. Wait, or use a smaller file.",
	ErrCodeNotFound:        "The requested job was not found. Check the job name.",
	ErrCodeUnknown:         "The service returned an unrecognized error.",
}

// BadRequest creates a service error for a rejected request.
func BadRequest(message string) *AppError {
	return FromService(ErrCodeBadRequest, "BadRequestException", message, http.StatusBadRequest)
}

// Conflict creates a service error for a duplicate job name.
func Conflict(message string) *AppError {
	return FromService(ErrCodeConflict, "ConflictException", message, http.StatusBadRequest)
}

// InternalFailure creates a service error for a server-side fault.
func InternalFailure(message string) *AppError {
	return FromService(ErrCodeInternalFailure, "InternalFailureException", message, http.StatusInternalServerError)
}

// LimitExceeded creates a service error for throttling or oversized input.
func LimitExceeded(message string) *AppError {
	return FromService(ErrCodeLimitExceeded, "LimitExceededException", message, http.StatusBadRequest)
}

// NotFound creates a service error for an unknown job.
func NotFound(message string) *AppError {
	return FromService(ErrCodeNotFound, "NotFoundException", message, http.StatusBadRequest)
}

// Unknown creates a service error for an unclassified failure.
func Unknown(serviceType, message string, httpStatus int) *AppError {
	return FromService(ErrCodeUnknown, serviceType, message, httpStatus)
}

// --- Client errors ---

// Validation creates a local validation error.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// InvalidInput creates a local validation error for one field.
func InvalidInput(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("%s: %s", field, reason)).
		WithDetail("field", field)
}

// MissingField creates a local validation error for an absent required field.
func MissingField(field string) *AppError {
	return InvalidInput(field, "is required")
}

// Timeout creates an error for a request that timed out or was canceled.
func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long or was canceled.").
		WithDetail("operation", operation)
}

// ConnectionFailed creates an error for an unreachable endpoint.
func ConnectionFailed(endpoint string) *AppError {
	return New(ErrCodeConnectionFailed, fmt.Sprintf("Unable to reach %s.", endpoint)).
		WithDetail("endpoint", endpoint)
}

// ServiceUnavailable creates an error for a call refused by a local limiter or breaker.
func ServiceUnavailable(reason string) *AppError {
	return New(ErrCodeServiceUnavailable, reason)
}

// Unauthorized creates an error for rejected credentials.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "The request signature or credentials were rejected."
	}
	e := New(ErrCodeUnauthorized, message)
	e.Domain = DomainService
	return e
}

// JobFailed creates an error for a job that finished in the FAILED state.
func JobFailed(jobName, reason string) *AppError {
	return New(ErrCodeJobFailed, fmt.Sprintf("job %s failed: %s", jobName, reason)).
		WithDetail("job_name", jobName)
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of err, or ErrCodeUnknown when err is not an AppError.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeUnknown
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsRetryable reports whether err is an AppError marked retryable.
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable
}
