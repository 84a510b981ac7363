package httpclient

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"

	"github.com/kbukum/transcribe/errors"
)

// classifyResponse turns a non-2xx response into an AppError.
func classifyResponse(status int, header http.Header, body []byte) *errors.AppError {
	wire := errors.ParseWireError(body, header.Get(errors.HeaderErrorType))
	return errors.Classify(wire, status).WithRequestID(header.Get(HeaderRequestID))
}

// classifyTransport maps a failed round trip onto TIMEOUT or
// CONNECTION_FAILED. Both are retryable.
func classifyTransport(ctx context.Context, operation, endpoint string, err error) *errors.AppError {
	if ctx.Err() != nil || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(operation).WithCause(err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Timeout(operation).WithCause(err)
	}
	return errors.ConnectionFailed(endpoint).WithCause(err)
}
