package transcribe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/httpclient"
	"github.com/kbukum/transcribe/logger"
	"github.com/kbukum/transcribe/observability"
	"github.com/kbukum/transcribe/provider"
	"github.com/kbukum/transcribe/resilience"
)

// Operation names, as sent in X-Amz-Target.
const (
	OpStartTranscriptionJob = "StartTranscriptionJob"
	OpGetTranscriptionJob   = "GetTranscriptionJob"
	OpListTranscriptionJobs = "ListTranscriptionJobs"
	OpFetchTranscript       = "FetchTranscript"
)

// tracerService prefixes span names: "transcribe.GetTranscriptionJob".
const tracerService = "transcribe"

// Client calls the transcription service. It is safe for concurrent use;
// calls share only the immutable configuration, the transport and the
// resilience primitives.
type Client struct {
	cfg        Config
	adapter    *httpclient.Adapter
	log        *logger.Logger
	metrics    *observability.Metrics
	resilience *provider.ResilienceState
	bulkhead   *resilience.Bulkhead

	start      provider.RequestResponse[*StartTranscriptionJobRequest, *Job]
	get        provider.RequestResponse[*GetTranscriptionJobRequest, *Job]
	list       provider.RequestResponse[*ListTranscriptionJobsRequest, *ListTranscriptionJobsResponse]
	transcript provider.RequestResponse[string, *TranscriptDocument]
}

type options struct {
	log         *logger.Logger
	httpClient  *http.Client
	credentials aws.CredentialsProvider
	metrics     *observability.Metrics
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the client logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithHTTPClient replaces the HTTP client. Config.TLS is ignored when set.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithCredentials overrides credential resolution. Pass
// aws.AnonymousCredentials{} to send unsigned requests.
func WithCredentials(p aws.CredentialsProvider) Option {
	return func(o *options) { o.credentials = p }
}

// WithMetrics records operation metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New builds a Client. Credentials come from WithCredentials, then the
// static keys in cfg, then the default AWS chain; ctx bounds loading the
// shared configuration only.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	log := o.log.WithComponent(cfg.Name)

	creds, err := resolveCredentials(ctx, cfg, o.credentials)
	if err != nil {
		return nil, err
	}

	signer := httpclient.NewSigner(creds, cfg.Region, signingName)
	adapterOpts := []httpclient.Option{
		httpclient.WithSigner(signer),
		httpclient.WithLogger(log),
	}
	if o.httpClient != nil {
		adapterOpts = append(adapterOpts, httpclient.WithHTTPClient(o.httpClient))
	}
	adapter, err := httpclient.New(cfg.httpConfig(), adapterOpts...)
	if err != nil {
		return nil, err
	}

	if cfg.CircuitBreaker.OnStateChange == nil {
		cfg.CircuitBreaker.OnStateChange = func(name string, from, to resilience.State) {
			log.Warn("circuit breaker state changed", logger.Fields(
				"breaker", name, "from", from.String(), "to", to.String()))
		}
	}

	c := &Client{
		cfg:     cfg,
		adapter: adapter,
		log:     log,
		metrics: o.metrics,
		resilience: provider.BuildResilience(provider.ResilienceConfig{
			CircuitBreaker: &cfg.CircuitBreaker,
			Retry:          &cfg.Retry,
			RateLimiter:    &cfg.RateLimit,
		}),
	}
	if cfg.MaxInFlight > 0 {
		c.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          cfg.Name,
			MaxConcurrent: cfg.MaxInFlight,
			OnReject: func(name string) {
				log.Warn("async call rejected", logger.Fields("bulkhead", name, "max_in_flight", cfg.MaxInFlight))
			},
		})
	}

	c.start = operation(c, OpStartTranscriptionJob, c.resilience.WithoutRetry(),
		func(r *StartTranscriptionJobRequest) map[string]interface{} {
			return logger.Fields(logger.FieldJobName, r.JobName)
		},
		func(_ context.Context, r *StartTranscriptionJobRequest) (httpclient.Request, error) {
			return httpclient.Request{Operation: OpStartTranscriptionJob, Body: r.normalized()}, nil
		},
		decodeJob[StartTranscriptionJobResponse](func(r *StartTranscriptionJobResponse) *Job { return r.Job }),
	)
	c.get = operation(c, OpGetTranscriptionJob, c.resilience,
		func(r *GetTranscriptionJobRequest) map[string]interface{} {
			return logger.Fields(logger.FieldJobName, r.JobName)
		},
		func(_ context.Context, r *GetTranscriptionJobRequest) (httpclient.Request, error) {
			return httpclient.Request{Operation: OpGetTranscriptionJob, Body: r}, nil
		},
		decodeJob[GetTranscriptionJobResponse](func(r *GetTranscriptionJobResponse) *Job { return r.Job }),
	)
	c.list = operation(c, OpListTranscriptionJobs, c.resilience,
		func(r *ListTranscriptionJobsRequest) map[string]interface{} {
			return logger.Fields(logger.FieldJobStatus, string(r.Status))
		},
		func(_ context.Context, r *ListTranscriptionJobsRequest) (httpclient.Request, error) {
			return httpclient.Request{Operation: OpListTranscriptionJobs, Body: r.normalized()}, nil
		},
		decodeList,
	)
	c.transcript = provider.Chain(
		provider.WithLogging[string, *TranscriptDocument](log),
		provider.WithTracing[string, *TranscriptDocument](tracerService),
		metricsMiddleware[string, *TranscriptDocument](c.metrics),
	)(provider.Func(OpFetchTranscript, c.downloadTranscript))

	log.Debug("client ready", logger.Fields(
		logger.FieldRegion, cfg.Region,
		logger.FieldEndpoint, cfg.Endpoint,
		"signed", !signer.Anonymous(),
	))
	return c, nil
}

// operation adapts the transport to one typed operation and wraps it with
// logging, tracing, metrics and resilience, outermost first.
func operation[I, O any](
	c *Client,
	name string,
	state *provider.ResilienceState,
	fields func(I) map[string]interface{},
	mapIn func(context.Context, I) (httpclient.Request, error),
	mapOut func(*httpclient.Response) (O, error),
) provider.RequestResponse[I, O] {
	base := provider.Adapt[I, O, httpclient.Request, *httpclient.Response](c.adapter, name, mapIn, mapOut)
	return provider.Chain(
		provider.WithLoggingFields[I, O](c.log, fields),
		provider.WithTracing[I, O](tracerService),
		metricsMiddleware[I, O](c.metrics),
		provider.WithResilience[I, O](state),
	)(base)
}

func metricsMiddleware[I, O any](m *observability.Metrics) provider.Middleware[I, O] {
	if m == nil {
		return nil
	}
	return provider.WithMetrics[I, O](m)
}

func decodeJob[T any](job func(*T) *Job) func(*httpclient.Response) (*Job, error) {
	return func(resp *httpclient.Response) (*Job, error) {
		out, err := httpclient.Decode[T](resp)
		if err != nil {
			return nil, err
		}
		j := job(out)
		if j == nil {
			return nil, errors.Unknown("SerializationException", "The response did not contain a job.", resp.StatusCode).
				WithRequestID(resp.RequestID)
		}
		return j, nil
	}
}

func decodeList(resp *httpclient.Response) (*ListTranscriptionJobsResponse, error) {
	out, err := httpclient.Decode[ListTranscriptionJobsResponse](resp)
	if err != nil {
		return nil, err
	}
	if out.JobSummaries == nil {
		out.JobSummaries = []JobSummary{}
	}
	return out, nil
}

func resolveCredentials(ctx context.Context, cfg Config, override aws.CredentialsProvider) (aws.CredentialsProvider, error) {
	if override != nil {
		return override, nil
	}
	if cfg.AccessKeyID != "" {
		return credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken), nil
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("transcribe: load aws config: %w", err)
	}
	return awsCfg.Credentials, nil
}

// StartTranscriptionJob starts a job. The request is validated locally
// first; a duplicate name fails with CONFLICT. The call is never retried.
func (c *Client) StartTranscriptionJob(ctx context.Context, req *StartTranscriptionJobRequest) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return c.start.Execute(ctx, req)
}

// GetTranscriptionJob returns the job called name, or NOT_FOUND.
func (c *Client) GetTranscriptionJob(ctx context.Context, name string) (*Job, error) {
	req := &GetTranscriptionJobRequest{JobName: name}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return c.get.Execute(ctx, req)
}

// ListTranscriptionJobs returns one page of jobs in req.Status. Use a
// paginator or ListAllTranscriptionJobs to walk every page.
func (c *Client) ListTranscriptionJobs(ctx context.Context, req *ListTranscriptionJobsRequest) (*ListTranscriptionJobsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return c.list.Execute(ctx, req)
}

// ListAllTranscriptionJobs follows every page and returns all summaries
// in server order. On error the summaries read so far are returned too.
func (c *Client) ListAllTranscriptionJobs(ctx context.Context, status JobStatus) ([]JobSummary, error) {
	p := NewListTranscriptionJobsPaginator(c, &ListTranscriptionJobsRequest{Status: status})
	all := []JobSummary{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if page != nil {
			all = append(all, page.JobSummaries...)
		}
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// CircuitState reports the breaker state, or false when no breaker is configured.
func (c *Client) CircuitState() (resilience.State, bool) {
	return c.resilience.CircuitState()
}

// Close releases idle connections. The client stays usable.
func (c *Client) Close(ctx context.Context) error {
	return c.adapter.Close(ctx)
}
