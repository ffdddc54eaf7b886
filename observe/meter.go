package observe

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/flowkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Instrument names used by OTelRecorder.
const (
	MetricTraversals        = "flow.traversals"
	MetricTraversalsActive  = "flow.traversals.active"
	MetricItems             = "flow.items"
	MetricErrors            = "flow.errors"
	MetricTraversalDuration = "flow.traversal.duration"
)

// OTelRecorder records traversal metrics with OpenTelemetry instruments.
type OTelRecorder struct {
	traversals metric.Int64Counter
	active     metric.Int64UpDownCounter
	items      metric.Int64Counter
	errors     metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewOTelRecorder creates metric instruments on the given meter.
func NewOTelRecorder(meter metric.Meter) (*OTelRecorder, error) {
	traversals, err := meter.Int64Counter(MetricTraversals,
		metric.WithDescription("Finished traversals by flow and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricTraversals, err)
	}

	active, err := meter.Int64UpDownCounter(MetricTraversalsActive,
		metric.WithDescription("Traversals currently being pulled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricTraversalsActive, err)
	}

	items, err := meter.Int64Counter(MetricItems,
		metric.WithDescription("Values emitted by observed flows"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItems, err)
	}

	errs, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Failed pulls by flow"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	duration, err := meter.Float64Histogram(MetricTraversalDuration,
		metric.WithDescription("Duration of traversals in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricTraversalDuration, err)
	}

	return &OTelRecorder{
		traversals: traversals,
		active:     active,
		items:      items,
		errors:     errs,
		duration:   duration,
	}, nil
}

func (r *OTelRecorder) TraversalStarted(ctx context.Context, t Traversal) {
	r.active.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrFlowName, t.Name)))
}

func (r *OTelRecorder) ItemEmitted(ctx context.Context, t Traversal) {
	r.items.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrFlowName, t.Name)))
}

func (r *OTelRecorder) PullFailed(ctx context.Context, t Traversal, _ error) {
	r.errors.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrFlowName, t.Name)))
}

func (r *OTelRecorder) TraversalEnded(ctx context.Context, t Traversal, s Summary) {
	name := attribute.String(AttrFlowName, t.Name)
	attrs := metric.WithAttributes(name, attribute.String(AttrStatus, s.Status))
	r.active.Add(ctx, -1, metric.WithAttributes(name))
	r.traversals.Add(ctx, 1, attrs)
	r.duration.Record(ctx, s.Duration.Seconds(), attrs)
}
