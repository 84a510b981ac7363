package transcribetest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/httpclient"
	"github.com/kbukum/transcribe/transcribe"
)

func post(t *testing.T, s *Server, target, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.URL()+"/", strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(httpclient.HeaderTarget, target)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func wireType(t *testing.T, body []byte) string {
	t.Helper()
	var w errors.WireError
	if err := json.Unmarshal(body, &w); err != nil {
		t.Fatalf("expected JSON error body, got %s", body)
	}
	return w.Type
}

func TestUnknownTarget(t *testing.T) {
	s := NewServer(t)
	resp, body := post(t, s, "Transcribe.DeleteTranscriptionJob", httpclient.ContentTypeJSON11, `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if got := wireType(t, body); got != "UnknownOperationException" {
		t.Errorf("expected UnknownOperationException, got %q", got)
	}
	if resp.Header.Get(httpclient.HeaderRequestID) == "" {
		t.Error("expected a request id header")
	}
}

func TestWrongContentType(t *testing.T) {
	s := NewServer(t)
	resp, body := post(t, s, "Transcribe.GetTranscriptionJob", "application/json", `{"jobName":"a"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if got := wireType(t, body); got != "SerializationException" {
		t.Errorf("expected SerializationException, got %q", got)
	}
}

func TestMalformedBody(t *testing.T) {
	s := NewServer(t)
	_, body := post(t, s, "Transcribe.StartTranscriptionJob", httpclient.ContentTypeJSON11, `{"jobName":`)
	if got := wireType(t, body); got != "SerializationException" {
		t.Errorf("expected SerializationException, got %q", got)
	}
}

func TestErrorTypeHeader(t *testing.T) {
	s := NewServer(t, WithErrorTypeHeader())
	resp, body := post(t, s, "Transcribe.GetTranscriptionJob", httpclient.ContentTypeJSON11, `{"jobName":"missing"}`)
	if got := resp.Header.Get(errors.HeaderErrorType); got != "NotFoundException" {
		t.Errorf("expected NotFoundException header, got %q", got)
	}
	if got := wireType(t, body); got != "" {
		t.Errorf("expected no __type in the body, got %q", got)
	}
}

func TestInjectErrorStatus(t *testing.T) {
	s := NewServer(t)
	s.InjectError(transcribe.OpGetTranscriptionJob, errors.InternalFailure(""))
	s.InjectError(transcribe.OpGetTranscriptionJob, errors.FromService(errors.ErrCodeLimitExceeded, "ThrottlingException", "", 0))

	resp, body := post(t, s, "Transcribe.GetTranscriptionJob", httpclient.ContentTypeJSON11, `{"jobName":"a"}`)
	if resp.StatusCode != http.StatusInternalServerError || wireType(t, body) != "InternalFailureException" {
		t.Errorf("expected 500 InternalFailureException, got %d %s", resp.StatusCode, body)
	}
	resp, body = post(t, s, "Transcribe.GetTranscriptionJob", httpclient.ContentTypeJSON11, `{"jobName":"a"}`)
	if resp.StatusCode != http.StatusBadRequest || wireType(t, body) != "ThrottlingException" {
		t.Errorf("expected 400 ThrottlingException, got %d %s", resp.StatusCode, body)
	}
	resp, _ = post(t, s, "Transcribe.GetTranscriptionJob", httpclient.ContentTypeJSON11, `{"jobName":"a"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected the queue to drain into normal handling, got %d", resp.StatusCode)
	}
	if n := s.Calls(transcribe.OpGetTranscriptionJob); n != 3 {
		t.Errorf("expected 3 recorded calls, got %d", n)
	}
}

func TestStartAndGetOverWire(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewServer(t, WithClock(func() time.Time { return fixed }))

	resp, body := post(t, s, "Transcribe.StartTranscriptionJob", httpclient.ContentTypeJSON11,
		`{"jobName":"j","languageCode":"en-US","media":{"fileUri":"s3://b/k.wav"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != httpclient.ContentTypeJSON11 {
		t.Errorf("expected %s, got %q", httpclient.ContentTypeJSON11, ct)
	}
	var start transcribe.StartTranscriptionJobResponse
	if err := json.Unmarshal(body, &start); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if start.Job.JobStatus != transcribe.JobStatusInProgress || !start.Job.CreationTime.Equal(fixed) {
		t.Errorf("expected IN_PROGRESS created at %v, got %+v", fixed, start.Job)
	}

	_, body = post(t, s, "Transcribe.StartTranscriptionJob", httpclient.ContentTypeJSON11,
		`{"jobName":"j","languageCode":"en-US","media":{"fileUri":"s3://b/k.wav"}}`)
	if got := wireType(t, body); got != "ConflictException" {
		t.Errorf("expected ConflictException, got %q", got)
	}

	_, body = post(t, s, "Transcribe.StartTranscriptionJob", httpclient.ContentTypeJSON11, `{"jobName":"bad name"}`)
	if got := wireType(t, body); got != "BadRequestException" {
		t.Errorf("expected BadRequestException, got %q", got)
	}
}

func TestListRejectsForeignToken(t *testing.T) {
	s := NewServer(t)
	_, body := post(t, s, "Transcribe.ListTranscriptionJobs", httpclient.ContentTypeJSON11, `{"status":"COMPLETED","nextToken":"made-up"}`)
	if got := wireType(t, body); got != "BadRequestException" {
		t.Errorf("expected BadRequestException, got %q", got)
	}
	_, body = post(t, s, "Transcribe.ListTranscriptionJobs", httpclient.ContentTypeJSON11, `{"status":"QUEUED"}`)
	if got := wireType(t, body); got != "BadRequestException" {
		t.Errorf("expected BadRequestException for an unknown status, got %q", got)
	}
}

func TestTranscriptNotFound(t *testing.T) {
	s := NewServer(t)
	resp, err := http.Get(s.URL() + transcriptsPath + "nope.json")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if s.Complete("nope", "x") || s.Fail("nope", "x") {
		t.Error("expected transitions on unknown jobs to report false")
	}
}
