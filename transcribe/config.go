package transcribe

import (
	"time"

	"github.com/kbukum/transcribe/httpclient"
	"github.com/kbukum/transcribe/resilience"
	"github.com/kbukum/transcribe/security"
	"github.com/kbukum/transcribe/validation"
)

// Default configuration values.
const (
	DefaultName    = "transcribe"
	DefaultRegion  = "us-east-1"
	DefaultTimeout = 30 * time.Second

	signingName = "transcribe"
)

// Config configures a Client. It is read-only once the client is built.
type Config struct {
	// Name identifies the client in logs, breaker state and the component registry.
	Name string `yaml:"name" mapstructure:"name"`

	// Region selects the service region and the signing region.
	Region string `yaml:"region" mapstructure:"region"`

	// Endpoint overrides the regional endpoint, e.g. for a private
	// deployment or a local fake.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// AccessKeyID, SecretAccessKey and SessionToken are static credentials.
	// When AccessKeyID is empty the default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id" mapstructure:"access_key_id" json:"-"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key" json:"-"`
	SessionToken    string `yaml:"session_token" mapstructure:"session_token" json:"-"`

	// Profile selects a shared config profile for the default chain.
	Profile string `yaml:"profile" mapstructure:"profile"`

	// Timeout bounds each HTTP exchange.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxInFlight caps concurrently executing async calls. Zero is unlimited.
	MaxInFlight int `yaml:"max_in_flight" mapstructure:"max_in_flight"`

	// Retry applies to GetTranscriptionJob and ListTranscriptionJobs only.
	// Disabled unless MaxAttempts > 1.
	Retry resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`

	// RateLimit paces every operation. Disabled unless RequestsPerSecond > 0.
	RateLimit resilience.RateLimiterConfig `yaml:"rate_limit" mapstructure:"rate_limit"`

	// CircuitBreaker guards the endpoint. Disabled unless MaxFailures > 0.
	CircuitBreaker resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// Headers are sent with every operation call.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TLS configures the transport for private endpoints.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields. The endpoint is derived from
// the region; an explicit endpoint without a region signs for us-east-1.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Endpoint == "" && c.Region != "" {
		c.Endpoint = RegionalEndpoint(c.Region)
	}
	if c.Region == "" && c.Endpoint != "" {
		c.Region = DefaultRegion
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CircuitBreaker.Name == "" {
		c.CircuitBreaker.Name = c.Name
	}
	if c.RateLimit.Name == "" {
		c.RateLimit.Name = c.Name
	}
}

// Validate checks the configuration. Call ApplyDefaults first. Failures are
// a VALIDATION_ERROR with every offending key under Details["fields"].
func (c *Config) Validate() error {
	v := validation.New().
		Custom(c.Region != "" || c.Endpoint != "", "region", "region or endpoint is required").
		Custom(c.AccessKeyID == "" || c.SecretAccessKey != "", "secret_access_key", "is required with access_key_id").
		Custom(c.MaxInFlight >= 0, "max_in_flight", "must not be negative").
		Custom(c.Retry.MaxAttempts >= 0, "retry.max_attempts", "must not be negative").
		Custom(c.RateLimit.RequestsPerSecond >= 0 && c.RateLimit.Burst >= 0, "rate_limit", "values must not be negative").
		Custom(c.CircuitBreaker.MaxFailures >= 0, "circuit_breaker.max_failures", "must not be negative")
	if c.Endpoint != "" {
		httpCfg := c.httpConfig()
		if err := httpCfg.Validate(); err != nil {
			v.AddError("endpoint", err.Error())
		}
	}
	return v.Err()
}

// RegionalEndpoint returns the public endpoint for region.
func RegionalEndpoint(region string) string {
	return "https://transcribe." + region + ".amazonaws.com"
}

func (c *Config) httpConfig() httpclient.Config {
	return httpclient.Config{
		Name:        c.Name,
		Endpoint:    c.Endpoint,
		Region:      c.Region,
		SigningName: signingName,
		Timeout:     c.Timeout,
		Headers:     c.Headers,
		TLS:         c.TLS,
	}
}
