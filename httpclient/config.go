package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultSigningName  = "transcribe"
	defaultTargetPrefix = "Transcribe"
)

// Config configures the Adapter.
type Config struct {
	// Name identifies the adapter in logs and traces.
	Name string `yaml:"name" mapstructure:"name"`

	// Endpoint is the service root URL, e.g. https://transcribe.us-east-1.amazonaws.com.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Region is the signing region.
	Region string `yaml:"region" mapstructure:"region"`

	// SigningName is the SigV4 service name. Defaults to "transcribe".
	SigningName string `yaml:"signing_name" mapstructure:"signing_name"`

	// TargetPrefix is prepended to the operation in X-Amz-Target. Defaults to "Transcribe".
	TargetPrefix string `yaml:"target_prefix" mapstructure:"target_prefix"`

	// Timeout bounds each HTTP exchange. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TLS configures the transport for private endpoints.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// MaxIdleConnsPerHost sizes the keep-alive pool. Zero keeps the net/http default.
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.SigningName == "" {
		c.SigningName = defaultSigningName
	}
	if c.TargetPrefix == "" {
		c.TargetPrefix = defaultTargetPrefix
	}
	if c.Name == "" {
		c.Name = c.SigningName
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("httpclient: endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("httpclient: invalid endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("httpclient: endpoint must be an http(s) URL, got %q", c.Endpoint)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.MaxIdleConnsPerHost < 0 {
		return fmt.Errorf("httpclient: max_idle_conns_per_host must not be negative")
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
