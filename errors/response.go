package errors

import (
	"encoding/json"
	"net/http"
	"strings"
)

// HeaderErrorType is the response header some endpoints use to name the exception.
const HeaderErrorType = "X-Amzn-Errortype"

// WireError is the JSON error envelope exchanged with the endpoint.
type WireError struct {
	Type    string `json:"__type"`
	Message string `json:"message,omitempty"`
}

// ToWire converts an AppError into the envelope a server would send.
func (e *AppError) ToWire() WireError {
	t := e.ServiceType
	if t == "" {
		t = exceptionTypes[e.Code]
	}
	return WireError{Type: t, Message: e.Message}
}

var exceptionTypes = map[ErrorCode]string{
	ErrCodeBadRequest:      "BadRequestException",
	ErrCodeConflict:        "ConflictException",
	ErrCodeInternalFailure: "InternalFailureException",
	ErrCodeLimitExceeded:   "LimitExceededException",
	ErrCodeNotFound:        "NotFoundException",
}

// ParseWireError extracts the exception type and message from an error
// response. The header takes precedence over the body. Namespaces
// ("com.amazonaws.transcribe#") and header URI suffixes (":http://...") are
// stripped so only the bare exception name remains.
func ParseWireError(body []byte, header string) WireError {
	var w WireError
	if len(body) > 0 {
		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err == nil {
			if s, ok := raw["__type"].(string); ok {
				w.Type = s
			}
			for _, k := range []string{"message", "Message"} {
				if s, ok := raw[k].(string); ok {
					w.Message = s
					break
				}
			}
		}
	}
	if header != "" {
		w.Type = header
	}
	w.Type = normalizeType(w.Type)
	return w
}

func normalizeType(t string) string {
	if i := strings.Index(t, ":"); i >= 0 {
		t = t[:i]
	}
	if i := strings.LastIndex(t, "#"); i >= 0 {
		t = t[i+1:]
	}
	return strings.TrimSpace(t)
}

// Classify maps an exception type and HTTP status onto an AppError.
func Classify(w WireError, httpStatus int) *AppError {
	switch w.Type {
	case "BadRequestException", "ValidationException", "SerializationException":
		return FromService(ErrCodeBadRequest, w.Type, w.Message, httpStatus)
	case "ConflictException":
		return FromService(ErrCodeConflict, w.Type, w.Message, httpStatus)
	case "InternalFailureException", "InternalServerException":
		return FromService(ErrCodeInternalFailure, w.Type, w.Message, httpStatus)
	case "LimitExceededException", "ThrottlingException":
		return FromService(ErrCodeLimitExceeded, w.Type, w.Message, httpStatus)
	case "NotFoundException":
		return FromService(ErrCodeNotFound, w.Type, w.Message, httpStatus)
	case "UnrecognizedClientException", "InvalidSignatureException", "AccessDeniedException",
		"MissingAuthenticationTokenException", "ExpiredTokenException":
		e := Unauthorized(w.Message)
		e.ServiceType = w.Type
		e.HTTPStatus = httpStatus
		return e
	}
	if w.Type == "" {
		switch {
		case httpStatus == http.StatusTooManyRequests:
			return FromService(ErrCodeLimitExceeded, "", w.Message, httpStatus)
		case httpStatus == http.StatusUnauthorized || httpStatus == http.StatusForbidden:
			e := Unauthorized(w.Message)
			e.HTTPStatus = httpStatus
			return e
		case httpStatus == http.StatusBadRequest:
			return FromService(ErrCodeBadRequest, "", w.Message, httpStatus)
		case httpStatus >= 500:
			return FromService(ErrCodeInternalFailure, "", w.Message, httpStatus)
		}
	}
	return Unknown(w.Type, w.Message, httpStatus)
}
