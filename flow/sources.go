package flow

import (
	"context"
	"iter"

	"github.com/kbukum/flowkit/errors"
)

// Source describes how to open traversals of an external sequence. At least
// one opener must be set. Each call of an opener starts one traversal; return
// a fresh cursor per call to make the flow reiterable.
type Source[T any] struct {
	// Sync opens a synchronous traversal.
	Sync func() SyncIterator[T]
	// Async opens an asynchronous traversal.
	Async func(ctx context.Context) Iterator[T]
}

// Wrap creates a flow from a source. A source with a Sync opener is ModeSync;
// when both openers are set, synchronous traversals use Sync and asynchronous
// traversals use Async. A source without openers yields a flow that carries
// an INVALID_ARGUMENT error.
func Wrap[T any](src Source[T]) *Flow[T] {
	switch {
	case src.Sync == nil && src.Async == nil:
		err := errors.InvalidArgument("source", "source has no opener")
		log().Warn("rejected flow source", map[string]interface{}{"error": err.Error()})
		return failed[T](ModeSync, err)
	case src.Sync == nil:
		return &Flow[T]{
			mode: ModeAsync,
			open: func(ctx context.Context, _ protocol) Iterator[T] {
				return src.Async(ctx)
			},
		}
	case src.Async == nil:
		return &Flow[T]{
			mode: ModeSync,
			open: func(context.Context, protocol) Iterator[T] {
				return &asyncView[T]{it: src.Sync()}
			},
		}
	default:
		return &Flow[T]{
			mode: ModeSync,
			open: func(ctx context.Context, p protocol) Iterator[T] {
				if p == protoSync {
					return &asyncView[T]{it: src.Sync()}
				}
				return src.Async(ctx)
			},
		}
	}
}

// FromSlice creates a reiterable flow over a slice of values.
func FromSlice[T any](items []T) *Flow[T] {
	return FromSyncFunc(func() SyncIterator[T] {
		return &sliceIter[T]{items: items}
	})
}

// FromSeq creates a reiterable flow over an iter.Seq. Each traversal ranges
// over seq anew; closing the traversal stops the sequence.
func FromSeq[T any](seq iter.Seq[T]) *Flow[T] {
	return FromSyncFunc(func() SyncIterator[T] {
		return &seqIter[T]{seq: seq}
	})
}

// FromSync creates a single-pass flow from an existing synchronous iterator.
func FromSync[T any](it SyncIterator[T]) *Flow[T] {
	return FromSyncFunc(func() SyncIterator[T] { return it })
}

// FromSyncFunc creates a flow from a factory that produces a SyncIterator
// per traversal.
func FromSyncFunc[T any](fn func() SyncIterator[T]) *Flow[T] {
	return Wrap(Source[T]{Sync: fn})
}

// From creates a single-pass asynchronous flow from an existing Iterator.
func From[T any](it Iterator[T]) *Flow[T] {
	return FromFunc(func(context.Context) Iterator[T] { return it })
}

// FromFunc creates an asynchronous flow from a factory that produces an
// Iterator per traversal.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Flow[T] {
	return Wrap(Source[T]{Async: fn})
}

// FromChannel creates a single-pass asynchronous flow that reads values until
// ch is closed. Closing the traversal does not close ch.
func FromChannel[T any](ch <-chan T) *Flow[T] {
	return FromFunc(func(context.Context) Iterator[T] {
		return &channelIter[T]{ch: ch}
	})
}

// Generate creates an infinite synchronous flow that calls fn for each value.
func Generate[T any](fn func() T) *Flow[T] {
	return FromSyncFunc(func() SyncIterator[T] {
		return &generateIter[T]{fn: fn}
	})
}

// Empty creates a flow with no values.
func Empty[T any]() *Flow[T] {
	return FromSlice[T](nil)
}

// --- Source iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next() (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type seqIter[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
	done bool
}

func (it *seqIter[T]) Next() (T, bool, error) {
	if it.done {
		var zero T
		return zero, false, nil
	}
	if it.next == nil {
		it.next, it.stop = iter.Pull(it.seq)
	}
	val, ok := it.next()
	if !ok {
		it.finish()
	}
	return val, ok, nil
}

func (it *seqIter[T]) Close() error {
	it.finish()
	return nil
}

func (it *seqIter[T]) finish() {
	it.done = true
	if it.stop != nil {
		it.stop()
	}
}

type channelIter[T any] struct {
	ch <-chan T
}

func (it *channelIter[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case val, open := <-it.ch:
		return val, open, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (it *channelIter[T]) Close() error { return nil }

type generateIter[T any] struct {
	fn func() T
}

func (it *generateIter[T]) Next() (T, bool, error) {
	return it.fn(), true, nil
}

func (it *generateIter[T]) Close() error { return nil }
