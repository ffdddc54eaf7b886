// Package observe instruments flow traversals with OpenTelemetry tracing,
// OpenTelemetry or Prometheus metrics, and structured logs.
//
// Observe is a pass-through operation. Each traversal of the observed flow
// gets its own traversal id, an optional span opened on the first pull, and
// a summary reported to every configured Recorder when it ends:
//
//	rec, err := observe.NewOTelRecorder(observe.Meter("flowctl"))
//	lines = lines.Pipe(observe.Observe[string]("lines",
//		observe.WithRecorder(rec),
//		observe.WithTracer(observe.Tracer("flowctl")),
//	))
//
// Providers:
//
//	tp, err := observe.InitTracer(ctx, observe.DefaultTracerConfig("flowctl"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observe.InitMeter(ctx, observe.DefaultMeterConfig("flowctl"))
//	defer mp.Shutdown(ctx)
package observe
