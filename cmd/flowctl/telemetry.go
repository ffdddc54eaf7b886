package main

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/observe"
	"github.com/kbukum/flowkit/version"
)

// telemetry holds the observe options for the pipeline and the hooks that
// flush exporters when the run ends.
type telemetry struct {
	opts     []observe.Option
	shutdown []func(context.Context) error
}

// setupTelemetry always logs traversals. OTLP export is enabled by
// observe.endpoint and a Prometheus text file by observe.metrics_file.
func setupTelemetry(ctx context.Context, cfg *Config) (*telemetry, error) {
	t := &telemetry{
		opts: []observe.Option{observe.WithRecorder(observe.NewLogRecorder(logger.Get("observe")))},
	}

	if path := cfg.Observe.MetricsFile; path != "" {
		reg := prometheus.NewRegistry()
		t.opts = append(t.opts, observe.WithRecorder(observe.NewPrometheusRecorder(reg)))
		t.shutdown = append(t.shutdown, func(context.Context) error {
			return prometheus.WriteToTextfile(path, reg)
		})
	}

	if cfg.Observe.Endpoint == "" {
		return t, nil
	}

	serviceVersion := cfg.Version
	if serviceVersion == "" {
		serviceVersion = version.Get().Short()
	}

	tc := observe.DefaultTracerConfig(cfg.Name)
	tc.ServiceVersion = serviceVersion
	tc.Environment = cfg.Environment
	tc.Endpoint = cfg.Observe.Endpoint
	tc.Insecure = cfg.Observe.Insecure
	tc.SampleRate = cfg.Observe.SampleRate
	tp, err := observe.InitTracer(ctx, tc)
	if err != nil {
		return nil, err
	}
	t.shutdown = append(t.shutdown, tp.Shutdown)

	mc := observe.DefaultMeterConfig(cfg.Name)
	mc.ServiceVersion = serviceVersion
	mc.Environment = cfg.Environment
	mc.Endpoint = cfg.Observe.Endpoint
	mc.Insecure = cfg.Observe.Insecure
	mp, err := observe.InitMeter(ctx, mc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	t.shutdown = append(t.shutdown, mp.Shutdown)

	rec, err := observe.NewOTelRecorder(observe.Meter(cfg.Name))
	if err != nil {
		_ = t.close(ctx)
		return nil, err
	}
	t.opts = append(t.opts,
		observe.WithRecorder(rec),
		observe.WithTracer(observe.Tracer(cfg.Name)),
	)
	return t, nil
}

// close runs the shutdown hooks in reverse order.
func (t *telemetry) close(ctx context.Context) error {
	var errs []error
	for i := len(t.shutdown) - 1; i >= 0; i-- {
		if err := t.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
