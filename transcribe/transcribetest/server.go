// Package transcribetest provides an in-memory fake of the transcription
// service for tests. It speaks the same JSON 1.1 wire contract as the real
// endpoint and lets tests drive job state transitions and inject faults.
package transcribetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/httpclient"
	"github.com/kbukum/transcribe/transcribe"
)

const (
	targetPrefix      = "Transcribe."
	defaultMaxResults = 100
	transcriptsPath   = "/transcripts/"
)

// Request is a recorded operation call.
type Request struct {
	Operation string
	Body      []byte
	Signed    bool
	Header    http.Header
}

type pageCursor struct {
	status transcribe.JobStatus
	offset int
}

// Server is a running fake endpoint. All methods are safe for concurrent use.
type Server struct {
	srv *httptest.Server

	mu          sync.Mutex
	now         func() time.Time
	jobs        map[string]*transcribe.Job
	order       []string
	cursors     map[string]pageCursor
	faults      map[string][]*errors.AppError
	transcripts map[string]transcribe.TranscriptDocument
	requests    []Request
	typeHeader  bool
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for creation and completion times.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithErrorTypeHeader reports exception types in X-Amzn-Errortype instead
// of the body's __type field.
func WithErrorTypeHeader() Option {
	return func(s *Server) { s.typeHeader = true }
}

// NewServer starts a fake endpoint that is closed when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		now:         time.Now,
		jobs:        make(map[string]*transcribe.Job),
		cursors:     make(map[string]pageCursor),
		faults:      make(map[string][]*errors.AppError),
		transcripts: make(map[string]transcribe.TranscriptDocument),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = httptest.NewServer(s.Handler())
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the endpoint root.
func (s *Server) URL() string { return s.srv.URL }

// Config returns a client configuration pointing at the fake with static
// test credentials.
func (s *Server) Config() transcribe.Config {
	return transcribe.Config{
		Name:            "transcribe-test",
		Region:          "us-east-1",
		Endpoint:        s.srv.URL,
		AccessKeyID:     "AKIDTEST",
		SecretAccessKey: "test-secret",
		Timeout:         5 * time.Second,
	}
}

// Handler returns the gin engine serving the wire contract.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestID())
	r.POST("/", s.dispatch)
	r.GET(transcriptsPath+":file", s.serveTranscript)
	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(httpclient.HeaderRequestID, uuid.NewString())
		c.Next()
	}
}

// AddJob seeds a job as if it had been started earlier.
func (s *Server) AddJob(job transcribe.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.JobStatus == "" {
		job.JobStatus = transcribe.JobStatusInProgress
	}
	if job.CreationTime == nil {
		job.CreationTime = transcribe.NewTimestamp(s.now())
	}
	if _, exists := s.jobs[job.JobName]; !exists {
		s.order = append(s.order, job.JobName)
	}
	s.jobs[job.JobName] = &job
}

// Complete moves a job to COMPLETED and hosts a transcript document for it
// containing text.
func (s *Server) Complete(name, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[name]
	if !ok {
		return false
	}
	job.JobStatus = transcribe.JobStatusCompleted
	job.CompletionTime = transcribe.NewTimestamp(s.now())
	job.Transcript = &transcribe.Transcript{FileURI: s.srv.URL + transcriptsPath + name + ".json"}
	s.transcripts[name] = transcribe.TranscriptDocument{
		JobName:   name,
		AccountID: "123456789012",
		Status:    string(transcribe.JobStatusCompleted),
		Results: transcribe.TranscriptResults{
			Transcripts: []transcribe.TranscriptText{{Transcript: text}},
			Items:       wordItems(text),
		},
	}
	return true
}

// Fail moves a job to FAILED with reason.
func (s *Server) Fail(name, reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[name]
	if !ok {
		return false
	}
	job.JobStatus = transcribe.JobStatusFailed
	job.FailureReason = reason
	job.CompletionTime = transcribe.NewTimestamp(s.now())
	return true
}

// InjectError makes the next call to operation fail with err. Queued errors
// are consumed in order. err.HTTPStatus picks the status; zero uses 500 for
// INTERNAL_FAILURE and 400 otherwise.
func (s *Server) InjectError(operation string, err *errors.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[operation] = append(s.faults[operation], err)
}

// Requests returns the operation calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Calls counts the calls received for operation.
func (s *Server) Calls(operation string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Operation == operation {
			n++
		}
	}
	return n
}

func (s *Server) dispatch(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.fail(c, errors.BadRequest("The request body could not be read."))
		return
	}
	target := c.GetHeader(httpclient.HeaderTarget)
	op := strings.TrimPrefix(target, targetPrefix)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Operation: op,
		Body:      body,
		Signed:    strings.HasPrefix(c.GetHeader("Authorization"), "AWS4-HMAC-SHA256"),
		Header:    c.Request.Header.Clone(),
	})
	fault := s.takeFault(op)
	s.mu.Unlock()

	if fault != nil {
		s.fail(c, fault)
		return
	}
	if !strings.HasPrefix(c.GetHeader("Content-Type"), httpclient.ContentTypeJSON11) {
		s.fail(c, serviceError(errors.ErrCodeBadRequest, "SerializationException", "Unsupported content type."))
		return
	}

	switch {
	case target == targetPrefix+transcribe.OpStartTranscriptionJob:
		s.startJob(c, body)
	case target == targetPrefix+transcribe.OpGetTranscriptionJob:
		s.getJob(c, body)
	case target == targetPrefix+transcribe.OpListTranscriptionJobs:
		s.listJobs(c, body)
	default:
		s.fail(c, serviceError(errors.ErrCodeBadRequest, "UnknownOperationException", "Unknown operation "+target+"."))
	}
}

func (s *Server) takeFault(op string) *errors.AppError {
	queue := s.faults[op]
	if len(queue) == 0 {
		return nil
	}
	s.faults[op] = queue[1:]
	return queue[0]
}

func (s *Server) startJob(c *gin.Context, body []byte) {
	var req transcribe.StartTranscriptionJobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(c, serviceError(errors.ErrCodeBadRequest, "SerializationException", "The request body is not valid JSON."))
		return
	}
	if !transcribe.ValidJobName(req.JobName) || req.Media == nil || req.Media.FileURI == "" {
		s.fail(c, errors.BadRequest("The request is missing a valid job name or media location."))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[req.JobName]; exists {
		s.fail(c, errors.Conflict("The requested job name already exists. Use a different job name."))
		return
	}
	job := &transcribe.Job{
		JobSummary: transcribe.JobSummary{
			JobName:      req.JobName,
			JobStatus:    transcribe.JobStatusInProgress,
			LanguageCode: req.LanguageCode,
			CreationTime: transcribe.NewTimestamp(s.now()),
		},
		Media:                req.Media,
		MediaFormat:          req.MediaFormat,
		MediaSampleRateHertz: req.MediaSampleRateHertz,
	}
	s.jobs[job.JobName] = job
	s.order = append(s.order, job.JobName)
	s.reply(c, transcribe.StartTranscriptionJobResponse{Job: copyJob(job)})
}

func (s *Server) getJob(c *gin.Context, body []byte) {
	var req transcribe.GetTranscriptionJobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(c, serviceError(errors.ErrCodeBadRequest, "SerializationException", "The request body is not valid JSON."))
		return
	}
	s.mu.Lock()
	job, ok := s.jobs[req.JobName]
	var out *transcribe.Job
	if ok {
		out = copyJob(job)
	}
	s.mu.Unlock()

	if !ok {
		s.fail(c, errors.NotFound("The requested job couldn't be found. Check the job name and try your request again."))
		return
	}
	s.reply(c, transcribe.GetTranscriptionJobResponse{Job: out})
}

func (s *Server) listJobs(c *gin.Context, body []byte) {
	var req transcribe.ListTranscriptionJobsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(c, serviceError(errors.ErrCodeBadRequest, "SerializationException", "The request body is not valid JSON."))
		return
	}
	if !req.Status.Valid() {
		s.fail(c, errors.BadRequest("The status filter is not valid."))
		return
	}
	limit := defaultMaxResults
	if req.MaxResults != nil {
		limit = int(*req.MaxResults)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	offset := 0
	if req.NextToken != "" {
		cur, ok := s.cursors[req.NextToken]
		if !ok || cur.status != req.Status {
			s.fail(c, errors.BadRequest("The nextToken is not valid for this listing."))
			return
		}
		delete(s.cursors, req.NextToken)
		offset = cur.offset
	}

	var matching []transcribe.JobSummary
	for _, name := range s.order {
		if job := s.jobs[name]; job.JobStatus == req.Status {
			matching = append(matching, job.JobSummary)
		}
	}

	resp := transcribe.ListTranscriptionJobsResponse{Status: req.Status, JobSummaries: []transcribe.JobSummary{}}
	if offset < len(matching) {
		end := min(offset+limit, len(matching))
		resp.JobSummaries = append(resp.JobSummaries, matching[offset:end]...)
		if end < len(matching) {
			resp.NextToken = uuid.NewString()
			s.cursors[resp.NextToken] = pageCursor{status: req.Status, offset: end}
		}
	}
	s.reply(c, resp)
}

func (s *Server) serveTranscript(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("file"), ".json")
	s.mu.Lock()
	doc, ok := s.transcripts[name]
	s.mu.Unlock()
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) reply(c *gin.Context, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.fail(c, errors.InternalFailure("The response could not be encoded."))
		return
	}
	c.Data(http.StatusOK, httpclient.ContentTypeJSON11, body)
}

func (s *Server) fail(c *gin.Context, err *errors.AppError) {
	status := err.HTTPStatus
	if status == 0 {
		status = http.StatusBadRequest
		if err.Code == errors.ErrCodeInternalFailure {
			status = http.StatusInternalServerError
		}
	}
	wire := err.ToWire()
	if s.typeHeader {
		c.Header(errors.HeaderErrorType, wire.Type)
		wire.Type = ""
	}
	body, _ := json.Marshal(wire)
	c.Data(status, httpclient.ContentTypeJSON11, body)
}

func serviceError(code errors.ErrorCode, serviceType, message string) *errors.AppError {
	return errors.FromService(code, serviceType, message, 0)
}

func copyJob(job *transcribe.Job) *transcribe.Job {
	out := *job
	if job.Media != nil {
		m := *job.Media
		out.Media = &m
	}
	if job.Transcript != nil {
		t := *job.Transcript
		out.Transcript = &t
	}
	return &out
}

func wordItems(text string) []transcribe.TranscriptItem {
	words := strings.Fields(text)
	items := make([]transcribe.TranscriptItem, 0, len(words))
	for i, w := range words {
		items = append(items, transcribe.TranscriptItem{
			StartTime:    strconv.FormatFloat(float64(i)*0.5, 'f', 2, 64),
			EndTime:      strconv.FormatFloat(float64(i)*0.5+0.4, 'f', 2, 64),
			Alternatives: []transcribe.TranscriptAlternative{{Confidence: "0.99", Content: w}},
			Type:         "pronunciation",
		})
	}
	return items
}
