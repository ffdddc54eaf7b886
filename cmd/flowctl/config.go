package main

import (
	"strings"
	"time"

	"github.com/kbukum/flowkit/config"
	"github.com/kbukum/flowkit/redis"
	"github.com/kbukum/flowkit/validation"
)

// Config is the flowctl configuration, loaded from a config file, .env and
// FLOWCTL_* environment variables.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Output               string         `yaml:"output" mapstructure:"output"`
	Pipeline             PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Observe              ObserveConfig  `yaml:"observe" mapstructure:"observe"`
	Redis                redis.Config   `yaml:"redis" mapstructure:"redis"`
}

// PipelineConfig selects the stages applied to input lines. Stages run in
// field order; zero values disable a stage.
type PipelineConfig struct {
	Skip            int           `yaml:"skip" mapstructure:"skip" validate:"gte=0"`
	SkipWhilePrefix string        `yaml:"skip_while_prefix" mapstructure:"skip_while_prefix"`
	Filter          string        `yaml:"filter" mapstructure:"filter" validate:"regexp"`
	TakeWhilePrefix string        `yaml:"take_while_prefix" mapstructure:"take_while_prefix"`
	Take            int           `yaml:"take" mapstructure:"take" validate:"gte=-1"` // -1 means unlimited
	RateLimit       time.Duration `yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`
	Batch           int           `yaml:"batch" mapstructure:"batch" validate:"gte=0,excluded_with=Window"`
	Window          int           `yaml:"window" mapstructure:"window" validate:"gte=0"`
	Separator       string        `yaml:"separator" mapstructure:"separator"`
}

// Grouped reports whether lines are joined into batches or windows.
func (p PipelineConfig) Grouped() bool {
	return p.Batch > 0 || p.Window > 0
}

// ObserveConfig configures traversal telemetry.
type ObserveConfig struct {
	Endpoint    string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure    bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate  float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricsFile string  `yaml:"metrics_file" mapstructure:"metrics_file"`
}

// defaults registers every key so FLOWCTL_* variables can override it.
func defaults() map[string]any {
	return map[string]any{
		"name":                       "flowctl",
		"environment":                "production",
		"logging.level":              "warn",
		"logging.format":             "console",
		"logging.output":             "stderr",
		"output":                     "-",
		"pipeline.skip":              0,
		"pipeline.skip_while_prefix": "",
		"pipeline.filter":            "",
		"pipeline.take_while_prefix": "",
		"pipeline.take":              -1,
		"pipeline.rate_limit":        "0s",
		"pipeline.batch":             0,
		"pipeline.window":            0,
		"pipeline.separator":         " ",
		"observe.endpoint":           "",
		"observe.insecure":           true,
		"observe.sample_rate":        1.0,
		"observe.metrics_file":       "",
		"redis.addr":                 "localhost:6379",
		"redis.password":             "",
		"redis.db":                   0,
		"redis.page_size":            256,
	}
}

// loadConfig reads the configuration. path may be empty to search the
// default locations.
func loadConfig(path string, opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	opts = append([]config.LoaderOption{config.WithDefaults(defaults())}, opts...)
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.LoadConfig("flowctl", cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset values after flags have been applied.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Redis.ApplyDefaults()
	if c.Output == "" {
		c.Output = "-"
	}
}

// Validate checks the whole configuration and reports every problem at once.
func (c *Config) Validate() error {
	v := validation.New()
	v.Merge("service", c.ServiceConfig.Validate())
	v.Merge("config", validation.Validate(c))
	v.Custom(!strings.Contains(c.Observe.Endpoint, "://"),
		"observe.endpoint", "must be host:port without a scheme")
	v.Custom(c.Output == "-" || isRedis(c.Output),
		"output", `must be "-" or "redis:KEY"`)
	if isRedis(c.Output) {
		v.Merge("redis", c.Redis.Validate())
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
