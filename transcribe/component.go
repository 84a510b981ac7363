package transcribe

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/transcribe/component"
	"github.com/kbukum/transcribe/resilience"
)

// Component manages a Client's lifecycle inside a component.Registry.
type Component struct {
	cfg  Config
	opts []Option

	mu     sync.RWMutex
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component. The client is built in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, opts: opts}
}

// Client returns the client, or nil before Start.
func (c *Component) Client() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// Name returns the configured client name.
func (c *Component) Name() string { return c.cfg.Name }

// Start builds the client.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(ctx, c.cfg, c.opts...)
	if err != nil {
		return fmt.Errorf("transcribe start: %w", err)
	}
	c.mu.Lock()
	c.client = client
	c.mu.Unlock()
	return nil
}

// Stop releases idle connections and drops the client.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Close(ctx)
}

// Health reflects the circuit breaker: open is unhealthy, half-open is
// degraded. Without a breaker a started client is always healthy.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	client := c.Client()
	if client == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "client not started"
		return h
	}
	state, ok := client.CircuitState()
	if !ok {
		return h
	}
	switch state {
	case resilience.StateOpen:
		h.Status = component.StatusUnhealthy
		h.Message = "circuit breaker open"
	case resilience.StateHalfOpen:
		h.Status = component.StatusDegraded
		h.Message = "circuit breaker half-open"
	}
	return h
}

// Describe returns the startup summary.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Transcription client",
		Type:    "client",
		Details: c.cfg.Region + " " + c.cfg.Endpoint,
	}
}
