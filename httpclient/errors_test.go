package httpclient

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/kbukum/transcribe/errors"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		header   string
		body     string
		wantCode errors.ErrorCode
		wantType string
	}{
		{"body type", 400, "", `{"__type":"ConflictException","message":"dup"}`, errors.ErrCodeConflict, "ConflictException"},
		{"namespaced body type", 400, "", `{"__type":"com.amazonaws.transcribe#NotFoundException","Message":"gone"}`, errors.ErrCodeNotFound, "NotFoundException"},
		{"header wins", 400, "LimitExceededException:http://internal.amazon.com/", `{"__type":"BadRequestException"}`, errors.ErrCodeLimitExceeded, "LimitExceededException"},
		{"bare 400", 400, "", ``, errors.ErrCodeBadRequest, ""},
		{"bare 500", 503, "", `<html>`, errors.ErrCodeInternalFailure, ""},
		{"bare 429", 429, "", ``, errors.ErrCodeLimitExceeded, ""},
		{"unknown type", 400, "", `{"__type":"SomethingNewException"}`, errors.ErrCodeUnknown, "SomethingNewException"},
		{"unclassified status", 418, "", ``, errors.ErrCodeUnknown, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			h.Set(HeaderRequestID, "req-9")
			if tc.header != "" {
				h.Set(errors.HeaderErrorType, tc.header)
			}
			got := classifyResponse(tc.status, h, []byte(tc.body))
			if got.Code != tc.wantCode {
				t.Errorf("expected code %s, got %s", tc.wantCode, got.Code)
			}
			if got.ServiceType != tc.wantType {
				t.Errorf("expected service type %q, got %q", tc.wantType, got.ServiceType)
			}
			if got.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, got.HTTPStatus)
			}
			if got.RequestID != "req-9" {
				t.Errorf("expected request id req-9, got %q", got.RequestID)
			}
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTransport(t *testing.T) {
	ctx := context.Background()
	if got := classifyTransport(ctx, "Get", "host", stderrors.New("connection refused")); got.Code != errors.ErrCodeConnectionFailed {
		t.Errorf("expected CONNECTION_FAILED, got %s", got.Code)
	}
	if got := classifyTransport(ctx, "Get", "host", timeoutErr{}); got.Code != errors.ErrCodeTimeout {
		t.Errorf("expected TIMEOUT for net timeout, got %s", got.Code)
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	got := classifyTransport(canceled, "Get", "host", stderrors.New("whatever"))
	if got.Code != errors.ErrCodeTimeout {
		t.Errorf("expected TIMEOUT for canceled context, got %s", got.Code)
	}
	if !got.Retryable {
		t.Error("expected transport errors to be retryable")
	}
}
