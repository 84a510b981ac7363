package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/transcribe/component"
	"github.com/kbukum/transcribe/logger"
)

// Component wraps Storage with lifecycle management.
type Component struct {
	storage Storage
	cfg     Config
	log     *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a storage component. The backend is built in Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log}
}

// Storage returns the underlying Storage, or nil if not started or disabled.
func (c *Component) Storage() Storage {
	return c.storage
}

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start initializes the storage backend.
func (c *Component) Start(_ context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	s, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop drops the backend.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// Health probes the backend with an existence check on a sentinel key.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case !c.cfg.Enabled:
		h.Message = "disabled"
	case c.storage == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "storage not initialized"
	default:
		if _, err := c.storage.Exists(ctx, ".health"); err != nil {
			h.Status = component.StatusDegraded
			h.Message = err.Error()
		}
	}
	return h
}

// Describe returns the startup summary.
func (c *Component) Describe() component.Description {
	details := "provider=" + c.cfg.Provider
	switch c.cfg.Provider {
	case ProviderS3:
		details += " bucket=" + c.cfg.Bucket + " region=" + c.cfg.Region
	case ProviderLocal:
		details += " path=" + c.cfg.BasePath
	}
	return component.Description{Name: "Media storage", Type: "storage", Details: details}
}
