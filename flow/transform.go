package flow

import (
	"context"
)

// Map transforms each value using fn. The result keeps the upstream mode.
func Map[I, O any](fn func(I) (O, error)) Operation[I, O] {
	return func(f *Flow[I]) *Flow[O] {
		return derive(f, f.mode, func(up Iterator[I]) Iterator[O] {
			return &mapIter[I, O]{stage: stage[I]{source: up}, fn: fn}
		})
	}
}

// MapAsync transforms each value using fn, which may block on ctx. The result
// is always ModeAsync.
func MapAsync[I, O any](fn func(context.Context, I) (O, error)) Operation[I, O] {
	return func(f *Flow[I]) *Flow[O] {
		return derive(f, ModeAsync, func(up Iterator[I]) Iterator[O] {
			return &mapAsyncIter[I, O]{stage: stage[I]{source: up}, fn: fn}
		})
	}
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](p func(T) bool) Operation[T, T] {
	return func(f *Flow[T]) *Flow[T] {
		return derive(f, f.mode, func(up Iterator[T]) Iterator[T] {
			return &filterIter[T]{stage: stage[T]{source: up}, p: p}
		})
	}
}

// Tap calls fn as a side-effect for each value, then passes the value through
// unchanged. An error from fn fails the pull.
func Tap[T any](fn func(T) error) Operation[T, T] {
	return func(f *Flow[T]) *Flow[T] {
		return derive(f, f.mode, func(up Iterator[T]) Iterator[T] {
			return &tapIter[T]{stage: stage[T]{source: up}, fn: fn}
		})
	}
}

// Filter keeps only values that satisfy the predicate.
func (f *Flow[T]) Filter(p func(T) bool) *Flow[T] { return Filter(p)(f) }

// --- Iterator implementations ---

type mapIter[I, O any] struct {
	stage[I]
	fn func(I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	val, ok, err := it.pull(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

type mapAsyncIter[I, O any] struct {
	stage[I]
	fn func(context.Context, I) (O, error)
}

func (it *mapAsyncIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	val, ok, err := it.pull(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

type filterIter[T any] struct {
	stage[T]
	p func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for {
		val, ok, err := it.pull(ctx)
		if err != nil || !ok {
			return val, ok, err
		}
		if it.p(val) {
			return val, true, nil
		}
	}
}

type tapIter[T any] struct {
	stage[T]
	fn func(T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	val, ok, err := it.pull(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}
