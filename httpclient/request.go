package httpclient

import (
	"encoding/json"
	"net/http"

	"github.com/kbukum/transcribe/errors"
)

// Wire-level header and content type names.
const (
	ContentTypeJSON11  = "application/x-amz-json-1.1"
	HeaderTarget       = "X-Amz-Target"
	HeaderRequestID    = "X-Amzn-Requestid"
	HeaderInvocationID = "Amz-Sdk-Invocation-Id"
)

// Request describes one operation call.
type Request struct {
	// Operation is appended to the target prefix, e.g. "StartTranscriptionJob".
	Operation string
	// Body is JSON-encoded. Nil sends "{}".
	Body any
	// Headers are request-specific headers (merged over client defaults).
	Headers map[string]string
}

// Response is a successful (2xx) exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// RequestID is the server-assigned id from X-Amzn-RequestId.
	RequestID string
}

// Decode unmarshals the response body into a new T. Malformed bodies are
// reported as UNKNOWN service errors carrying the request id.
func Decode[T any](resp *Response) (*T, error) {
	out := new(T)
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return nil, errors.Unknown("SerializationException", "The response body could not be decoded.", resp.StatusCode).
			WithRequestID(resp.RequestID).
			WithCause(err)
	}
	return out, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return []byte("{}"), nil
	}
	if raw, ok := body.([]byte); ok {
		return raw, nil
	}
	return json.Marshal(body)
}
