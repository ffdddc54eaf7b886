package flow

import (
	"context"
	"iter"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
)

// Iterator provides asynchronous pull-based access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	// Next may block until a value is available or ctx is done.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// SyncIterator provides synchronous pull-based access to a stream of values.
type SyncIterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next() (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Mode tells whether a flow can be pulled synchronously.
type Mode int

const (
	// ModeSync flows support both synchronous and asynchronous traversal.
	ModeSync Mode = iota
	// ModeAsync flows only support asynchronous traversal.
	ModeAsync
)

func (m Mode) String() string {
	if m == ModeAsync {
		return "async"
	}
	return "sync"
}

// protocol is the pull protocol a traversal was opened with. Sources that
// offer both openers use it to pick one.
type protocol int

const (
	protoAsync protocol = iota
	protoSync
)

func (p protocol) String() string {
	if p == protoSync {
		return "synchronous"
	}
	return "asynchronous"
}

// Flow is an immutable, lazily evaluated sequence.
// No work happens until a traversal is opened.
type Flow[T any] struct {
	mode Mode
	open func(ctx context.Context, p protocol) Iterator[T]
	err  error
}

// Operation transforms one flow into another without pulling from it.
type Operation[A, B any] func(*Flow[A]) *Flow[B]

// Runnable is a fully-configured traversal ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the traversal until completion, error, or context cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// Mode reports the flow's pull capability.
func (f *Flow[T]) Mode() Mode { return f.mode }

// IsAsync reports whether the flow only supports asynchronous traversal.
func (f *Flow[T]) IsAsync() bool { return f.mode == ModeAsync }

// Err returns the construction error carried by the flow, if any. A flow with
// a construction error fails the first pull of every traversal.
func (f *Flow[T]) Err() error { return f.err }

// Iter opens an asynchronous traversal. The caller must Close() it.
func (f *Flow[T]) Iter(ctx context.Context) Iterator[T] {
	return f.open(ctx, protoAsync)
}

// SyncIter opens a synchronous traversal. The caller must Close() it.
// ModeAsync flows return an UNSUPPORTED_PROTOCOL error.
func (f *Flow[T]) SyncIter() (SyncIterator[T], error) {
	if f.mode == ModeAsync {
		return nil, errors.UnsupportedProtocol(protoSync.String())
	}
	return &syncView[T]{it: f.open(context.Background(), protoSync)}, nil
}

// All returns a range-over-func view of an asynchronous traversal. The
// traversal is closed when the loop ends, including early breaks. A pull
// error is yielded once and ends the loop.
func (f *Flow[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := f.Iter(ctx)
		defer func() {
			if err := it.Close(); err != nil {
				log().Warn("closing traversal failed", logger.ErrorFields("close", err))
			}
		}()
		for {
			val, ok, err := it.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(val, nil) {
				return
			}
		}
	}
}

// --- Terminals ---

// Drain creates a Runnable that pulls all values and sends each to sink.
func Drain[T any](f *Flow[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			it := f.Iter(ctx)
			defer it.Close()
			for {
				val, ok, err := it.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := sink(ctx, val); err != nil {
					return err
				}
			}
		},
	}
}

// Collect runs an asynchronous traversal and returns all values as a slice.
// On error the values pulled so far are returned with it.
func Collect[T any](ctx context.Context, f *Flow[T]) ([]T, error) {
	it := f.Iter(ctx)
	defer it.Close()
	var result []T
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// CollectSync runs a synchronous traversal and returns all values as a slice.
func CollectSync[T any](f *Flow[T]) ([]T, error) {
	it, err := f.SyncIter()
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var result []T
	for {
		val, ok, err := it.Next()
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// ForEach pulls all values and calls fn for each. Convenience wrapper around Drain.
func ForEach[T any](ctx context.Context, f *Flow[T], fn func(context.Context, T) error) error {
	return Drain(f, fn).Run(ctx)
}

// --- Internal helpers ---

func log() *logger.Logger {
	return logger.Get("flow")
}

// derive builds a flow whose traversals wrap a traversal of f. A construction
// error on f is carried over unchanged.
func derive[A, B any](f *Flow[A], mode Mode, wrap func(Iterator[A]) Iterator[B]) *Flow[B] {
	if f.err != nil {
		return failed[B](mode, f.err)
	}
	return &Flow[B]{
		mode: mode,
		open: func(ctx context.Context, p protocol) Iterator[B] {
			return wrap(f.open(ctx, p))
		},
	}
}

// failed returns a flow whose every traversal fails with err on first pull.
func failed[T any](mode Mode, err error) *Flow[T] {
	return &Flow[T]{
		mode: mode,
		err:  err,
		open: func(context.Context, protocol) Iterator[T] {
			return &errIter[T]{err: err}
		},
	}
}

// stage is embedded by operator iterators. It owns the upstream iterator and
// makes releasing it idempotent.
type stage[T any] struct {
	source   Iterator[T]
	released bool
	closeErr error
}

// pull reads from upstream unless it has already been released.
func (s *stage[T]) pull(ctx context.Context) (T, bool, error) {
	if s.released {
		var zero T
		return zero, false, nil
	}
	return s.source.Next(ctx)
}

// release closes upstream once. Later calls are no-ops.
func (s *stage[T]) release() {
	if s.released {
		return
	}
	s.released = true
	s.closeErr = s.source.Close()
}

func (s *stage[T]) Close() error {
	s.release()
	return s.closeErr
}

type errIter[T any] struct {
	err error
}

func (it *errIter[T]) Next(context.Context) (T, bool, error) {
	var zero T
	return zero, false, it.err
}

func (it *errIter[T]) Close() error { return nil }

// syncView drives an asynchronous iterator chain whose source was opened
// with the synchronous protocol, so no pull ever suspends.
type syncView[T any] struct {
	it Iterator[T]
}

func (v *syncView[T]) Next() (T, bool, error) {
	return v.it.Next(context.Background())
}

func (v *syncView[T]) Close() error { return v.it.Close() }

// asyncView adapts a synchronous iterator to the asynchronous protocol. The
// context is checked before each pull.
type asyncView[T any] struct {
	it SyncIterator[T]
}

func (v *asyncView[T]) Next(ctx context.Context) (T, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, false, err
	}
	return v.it.Next()
}

func (v *asyncView[T]) Close() error { return v.it.Close() }
