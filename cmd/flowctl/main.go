// Command flowctl reads lines from a file, stdin or a Redis list, runs them
// through a configured flow pipeline and writes the results to stdout or a
// Redis list.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/flowkit/flow"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/observe"
	"github.com/kbukum/flowkit/redis"
	"github.com/kbukum/flowkit/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "flowctl [file | - | redis:KEY]",
		Short: "Run newline-delimited input through a flow pipeline",
		Long: `flowctl reads lines from a file, a Redis list ("redis:KEY"), or stdin
when no input or "-" is given. It applies the configured stages in order
(skip, skip-while, filter, take-while, take, rate-limit, then batch or
window) and prints the results, or pushes them onto a Redis list when
--output is "redis:KEY".

Settings come from config.yml (or flowctl.yml), .env and FLOWCTL_*
environment variables; flags override them.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), cfg)
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger.Init(&cfg.Logging)

			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return run(cmd.Context(), cfg, input, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	fs := cmd.Flags()
	fs.StringVarP(&configFile, "config", "c", "", "config file (default: search cmd/flowctl/config.yml, flowctl.yml, config.yml)")
	fs.Int("skip", 0, "drop the first n lines")
	fs.String("skip-while", "", "drop leading lines with this prefix")
	fs.String("filter", "", "keep only lines matching this regular expression")
	fs.String("take-while", "", "stop at the first line without this prefix")
	fs.Int("take", -1, "emit at most n lines (-1 for all)")
	fs.Duration("rate-limit", 0, "minimum interval between emitted lines")
	fs.Int("batch", 0, "join consecutive groups of n lines")
	fs.Int("window", 0, "join sliding windows of n lines")
	fs.String("separator", " ", "separator used to join batches and windows")
	fs.StringP("output", "o", "-", `"-" for stdout or "redis:KEY" to push onto a list`)
	fs.String("redis-addr", "", "Redis address host:port")
	fs.String("otel-endpoint", "", "OTLP HTTP endpoint host:port for traces and metrics")
	fs.String("metrics-file", "", "write Prometheus metrics to this file on exit")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	return cmd
}

// applyFlags overrides config values with the flags set on the command line.
func applyFlags(fs *pflag.FlagSet, cfg *Config) {
	p := &cfg.Pipeline
	if fs.Changed("skip") {
		p.Skip, _ = fs.GetInt("skip")
	}
	if fs.Changed("skip-while") {
		p.SkipWhilePrefix, _ = fs.GetString("skip-while")
	}
	if fs.Changed("filter") {
		p.Filter, _ = fs.GetString("filter")
	}
	if fs.Changed("take-while") {
		p.TakeWhilePrefix, _ = fs.GetString("take-while")
	}
	if fs.Changed("take") {
		p.Take, _ = fs.GetInt("take")
	}
	if fs.Changed("rate-limit") {
		p.RateLimit, _ = fs.GetDuration("rate-limit")
	}
	if fs.Changed("batch") {
		p.Batch, _ = fs.GetInt("batch")
	}
	if fs.Changed("window") {
		p.Window, _ = fs.GetInt("window")
	}
	if fs.Changed("separator") {
		p.Separator, _ = fs.GetString("separator")
	}
	if fs.Changed("output") {
		cfg.Output, _ = fs.GetString("output")
	}
	if fs.Changed("redis-addr") {
		cfg.Redis.Addr, _ = fs.GetString("redis-addr")
	}
	if fs.Changed("otel-endpoint") {
		cfg.Observe.Endpoint, _ = fs.GetString("otel-endpoint")
	}
	if fs.Changed("metrics-file") {
		cfg.Observe.MetricsFile, _ = fs.GetString("metrics-file")
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level, _ = fs.GetString("log-level")
	}
}

// run executes one traversal of the configured pipeline over input, reading
// stdin when input is "-".
func run(ctx context.Context, cfg *Config, input string, stdin io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Get("flowctl")

	var rc *redis.Client
	if _, ok := redisKey(input); ok || isRedis(cfg.Output) {
		c, err := redis.New(cfg.Redis, logger.Get("redis"))
		if err != nil {
			return err
		}
		defer c.Close()
		if err := c.Ping(ctx); err != nil {
			return err
		}
		rc = c
	}

	tel, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("telemetry setup failed: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.close(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}()

	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()
	src, err := openSource(readCtx, input, stdin, rc)
	if err != nil {
		return err
	}
	defer src.Close()

	lines := observe.Observe[string](cfg.Name+".input", tel.opts...)(src.lines)
	f, err := buildPipeline(lines, cfg.Pipeline)
	if err != nil {
		return err
	}
	f = observe.Observe[string](cfg.Name+".output", tel.opts...)(f)

	log.Debug("pipeline started", logger.Fields("input", input, "output", cfg.Output))
	if key, ok := redisKey(cfg.Output); ok {
		err = flow.ForEach(ctx, f, rc.Appender(key))
	} else {
		err = writeLines(ctx, f, out)
	}
	if err != nil {
		return err
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	return nil
}
