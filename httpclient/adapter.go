package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/logger"
	"github.com/kbukum/transcribe/version"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 16 << 20

// Adapter sends JSON 1.1 operation calls to a single endpoint. It is safe
// for concurrent use; no per-call state is shared.
type Adapter struct {
	httpClient *http.Client
	config     Config
	signer     *Signer
	log        *logger.Logger
	newID      func() string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the underlying *http.Client. TLS and pool
// settings from Config are not applied to it.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithSigner signs every operation call.
func WithSigner(s *Signer) Option {
	return func(a *Adapter) { a.signer = s }
}

// WithLogger sets the logger for transport-level debug output.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithInvocationID overrides the per-call invocation id generator.
func WithInvocationID(fn func() string) Option {
	return func(a *Adapter) { a.newID = fn }
}

// New creates an Adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent("transcribe-go")
	}

	a := &Adapter{
		config: cfg,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.MaxIdleConnsPerHost > 0 {
			transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
		}
		if cfg.TLS != nil {
			tlsCfg, err := cfg.TLS.Build()
			if err != nil {
				return nil, err
			}
			if tlsCfg != nil {
				transport.TLSClientConfig = tlsCfg
			}
		}
		a.httpClient = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	}
	if a.log == nil {
		a.log = logger.GetGlobalLogger()
	}
	a.log = a.log.WithComponent("httpclient")
	return a, nil
}

// Do sends one operation call. Non-2xx responses and transport failures
// are returned as *errors.AppError; a canceled ctx yields TIMEOUT.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Operation == "" {
		return nil, errors.MissingField("operation")
	}
	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, errors.Validation("The request body could not be encoded.").WithCause(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(a.config.Endpoint, "/")+"/", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Validation("The request could not be built.").WithCause(err)
	}
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Content-Type", ContentTypeJSON11)
	httpReq.Header.Set(HeaderTarget, a.config.TargetPrefix+"."+req.Operation)
	httpReq.Header.Set(HeaderInvocationID, a.newID())
	httpReq.Header.Set("User-Agent", a.config.UserAgent)

	if err := a.signer.sign(ctx, httpReq, payload); err != nil {
		return nil, err
	}

	return a.roundTrip(ctx, req.Operation, httpReq)
}

// Execute implements provider.RequestResponse.
func (a *Adapter) Execute(ctx context.Context, req Request) (*Response, error) {
	return a.Do(ctx, req)
}

// Get performs an unsigned GET against an absolute URL, such as a
// presigned transcript location.
func (a *Adapter) Get(ctx context.Context, rawURL string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.InvalidInput("url", err.Error()).WithCause(err)
	}
	httpReq.Header.Set("User-Agent", a.config.UserAgent)
	return a.roundTrip(ctx, "Get", httpReq)
}

func (a *Adapter) roundTrip(ctx context.Context, operation string, httpReq *http.Request) (*Response, error) {
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		a.log.Debug("Round trip failed", logger.Fields(
			logger.FieldOperation, operation,
			logger.FieldEndpoint, httpReq.URL.Host,
			logger.FieldError, err.Error(),
		))
		return nil, classifyTransport(ctx, operation, httpReq.URL.Host, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransport(ctx, operation, httpReq.URL.Host, fmt.Errorf("read response body: %w", err))
	}

	requestID := resp.Header.Get(HeaderRequestID)
	a.log.Debug("Response received", logger.Fields(
		logger.FieldOperation, operation,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldRequestID, requestID,
	))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyResponse(resp.StatusCode, resp.Header, body).
			WithDetail("operation", operation)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		RequestID:  requestID,
	}, nil
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable reports whether the adapter can send requests. Breakers live
// above the adapter, so this is always true.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	return true
}

// Close releases idle keep-alive connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Config returns the adapter's effective configuration.
func (a *Adapter) Config() Config {
	return a.config
}
