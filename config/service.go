package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/flowkit/logger"
)

// Environments lists the accepted values of ServiceConfig.Environment.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig holds the settings shared by every flowkit tool. Tools embed
// it with `mapstructure:",squash"` so its keys sit at the top level of the
// config file.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills the environment, turns on Debug for development, and
// tags the logging config with the tool name.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = Environments[0]
	}
	c.Debug = c.Debug || c.Environment == "development"
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the shared fields. Embedding configs call it first.
func (c *ServiceConfig) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("config.name is required")
	case !slices.Contains(Environments, c.Environment):
		return fmt.Errorf("config.environment must be one of %v (got: %s)", Environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
