package observe

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/flowkit/flow"
)

// Option configures Observe.
type Option func(*options)

type options struct {
	recorders multiRecorder
	tracer    trace.Tracer
}

// WithRecorder adds a recorder. May be given more than once.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorders = append(o.recorders, r)
	}
}

// WithTracer sets the tracer used to open one span per traversal. Defaults
// to the global tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// Observe returns a pass-through operation that reports every traversal of
// the flow under name. The result keeps the upstream mode, and a flow with a
// construction error is returned unchanged.
func Observe[T any](name string, opts ...Option) flow.Operation[T, T] {
	o := options{tracer: Tracer(defaultTracerName)}
	for _, opt := range opts {
		opt(&o)
	}
	return func(f *flow.Flow[T]) *flow.Flow[T] {
		if f.Err() != nil {
			return f
		}
		src := flow.Source[T]{
			Async: func(ctx context.Context) flow.Iterator[T] {
				return &observedIter[T]{it: f.Iter(ctx), tr: newTraversal(name, &o)}
			},
		}
		if !f.IsAsync() {
			src.Sync = func() flow.SyncIterator[T] {
				it, err := f.SyncIter()
				if err != nil {
					return &failedSyncIter[T]{err: err}
				}
				return &observedSyncIter[T]{it: it, tr: newTraversal(name, &o)}
			}
		}
		return flow.Wrap(src)
	}
}

// traversal holds the per-traversal observation state.
type traversal struct {
	info    Traversal
	opts    *options
	ctx     context.Context
	span    trace.Span
	start   time.Time
	items   int64
	started bool
	ended   bool
}

func newTraversal(name string, o *options) *traversal {
	return &traversal{
		info: Traversal{Name: name, ID: uuid.NewString()},
		opts: o,
	}
}

func (t *traversal) begin(ctx context.Context) {
	if t.started {
		return
	}
	t.started = true
	t.start = time.Now()
	t.ctx, t.span = t.opts.tracer.Start(ctx, spanPrefix+t.info.Name,
		trace.WithAttributes(
			attribute.String(AttrFlowName, t.info.Name),
			attribute.String(AttrTraversalID, t.info.ID),
		),
	)
	t.opts.recorders.TraversalStarted(t.ctx, t.info)
}

func (t *traversal) observe(ok bool, err error) {
	if t.ended {
		return
	}
	switch {
	case err != nil:
		t.opts.recorders.PullFailed(t.ctx, t.info, err)
		t.span.RecordError(err)
		t.span.SetStatus(codes.Error, err.Error())
		t.end(StatusFailed)
	case !ok:
		t.end(StatusExhausted)
	default:
		t.items++
		t.opts.recorders.ItemEmitted(t.ctx, t.info)
	}
}

func (t *traversal) end(status string) {
	if !t.started || t.ended {
		return
	}
	t.ended = true
	s := Summary{Items: t.items, Duration: time.Since(t.start), Status: status}
	t.span.SetAttributes(
		attribute.Int64(AttrItems, s.Items),
		attribute.String(AttrStatus, s.Status),
	)
	t.span.End()
	t.opts.recorders.TraversalEnded(t.ctx, t.info, s)
}

type observedIter[T any] struct {
	it flow.Iterator[T]
	tr *traversal
}

func (o *observedIter[T]) Next(ctx context.Context) (T, bool, error) {
	o.tr.begin(ctx)
	val, ok, err := o.it.Next(ctx)
	o.tr.observe(ok, err)
	return val, ok, err
}

func (o *observedIter[T]) Close() error {
	o.tr.end(StatusClosed)
	return o.it.Close()
}

type observedSyncIter[T any] struct {
	it flow.SyncIterator[T]
	tr *traversal
}

func (o *observedSyncIter[T]) Next() (T, bool, error) {
	o.tr.begin(context.Background())
	val, ok, err := o.it.Next()
	o.tr.observe(ok, err)
	return val, ok, err
}

func (o *observedSyncIter[T]) Close() error {
	o.tr.end(StatusClosed)
	return o.it.Close()
}

type failedSyncIter[T any] struct {
	err error
}

func (it *failedSyncIter[T]) Next() (T, bool, error) {
	var zero T
	return zero, false, it.err
}

func (it *failedSyncIter[T]) Close() error { return nil }
