package bootstrap

import (
	"github.com/kbukum/transcribe/config"
)

// Config is the constraint for application configuration types. A struct
// embedding config.ServiceConfig satisfies it through promoted methods and
// may override ApplyDefaults or Validate to cover its own sections.
//
//	type CLIConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Transcribe transcribe.Config `yaml:"transcribe" mapstructure:"transcribe"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
