package httpclient

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/kbukum/transcribe/errors"
)

func newTestRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "https://transcribe.us-east-1.amazonaws.com/", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.Header.Set(HeaderTarget, "Transcribe.GetTranscriptionJob")
	return req
}

func TestSigner_SignsWithStaticCredentials(t *testing.T) {
	s := NewSigner(credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", "session"), "us-east-1", "transcribe")
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	req := newTestRequest(t)
	if err := s.sign(context.Background(), req, []byte("{}")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	auth := req.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20260102/us-east-1/transcribe/aws4_request") {
		t.Errorf("unexpected Authorization header %q", auth)
	}
	if !strings.Contains(auth, "x-amz-target") {
		t.Errorf("expected x-amz-target to be signed, got %q", auth)
	}
	if got := req.Header.Get("X-Amz-Date"); got != "20260102T030405Z" {
		t.Errorf("expected X-Amz-Date 20260102T030405Z, got %q", got)
	}
	if got := req.Header.Get("X-Amz-Security-Token"); got != "session" {
		t.Errorf("expected session token header, got %q", got)
	}
}

func TestSigner_AnonymousLeavesRequestUnsigned(t *testing.T) {
	for name, s := range map[string]*Signer{
		"nil signer":       nil,
		"nil provider":     NewSigner(nil, "us-east-1", "transcribe"),
		"anonymous":        NewSigner(aws.AnonymousCredentials{}, "us-east-1", "transcribe"),
		"cached anonymous": NewSigner(aws.NewCredentialsCache(aws.AnonymousCredentials{}), "us-east-1", "transcribe"),
	} {
		t.Run(name, func(t *testing.T) {
			if !s.Anonymous() {
				t.Fatal("expected anonymous signer")
			}
			req := newTestRequest(t)
			if err := s.sign(context.Background(), req, []byte("{}")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Header.Get("Authorization") != "" {
				t.Error("expected no Authorization header")
			}
		})
	}
}

type failingProvider struct{}

func (failingProvider) Retrieve(context.Context) (aws.Credentials, error) {
	return aws.Credentials{}, context.DeadlineExceeded
}

func TestSigner_CredentialFailure(t *testing.T) {
	s := NewSigner(failingProvider{}, "us-east-1", "transcribe")
	err := s.sign(context.Background(), newTestRequest(t), nil)
	if !errors.IsCode(err, errors.ErrCodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}
