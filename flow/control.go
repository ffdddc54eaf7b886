package flow

import (
	"context"
)

// Take emits at most n values. When n values have been emitted, or when n <= 0,
// upstream is closed and never pulled again.
func Take[T any](n int) Operation[T, T] {
	return func(f *Flow[T]) *Flow[T] {
		return derive(f, f.mode, func(up Iterator[T]) Iterator[T] {
			return &takeIter[T]{stage: stage[T]{source: up}, remaining: n}
		})
	}
}

// Skip drops the first n values and emits the rest.
func Skip[T any](n int) Operation[T, T] {
	return func(f *Flow[T]) *Flow[T] {
		return derive(f, f.mode, func(up Iterator[T]) Iterator[T] {
			return &skipIter[T]{stage: stage[T]{source: up}, remaining: n}
		})
	}
}

// TakeWhile emits values while p holds. The first value failing p is not
// emitted and upstream is closed.
func TakeWhile[T any](p func(T) bool) Operation[T, T] {
	return func(f *Flow[T]) *Flow[T] {
		return derive(f, f.mode, func(up Iterator[T]) Iterator[T] {
			return &takeWhileIter[T]{stage: stage[T]{source: up}, p: p}
		})
	}
}

// SkipWhile drops values while p holds. From the first value failing p on,
// every value is emitted and p is not evaluated again.
func SkipWhile[T any](p func(T) bool) Operation[T, T] {
	return func(f *Flow[T]) *Flow[T] {
		return derive(f, f.mode, func(up Iterator[T]) Iterator[T] {
			return &skipWhileIter[T]{stage: stage[T]{source: up}, p: p}
		})
	}
}

// Take emits at most n values.
func (f *Flow[T]) Take(n int) *Flow[T] { return Take[T](n)(f) }

// Skip drops the first n values.
func (f *Flow[T]) Skip(n int) *Flow[T] { return Skip[T](n)(f) }

// TakeWhile emits values while p holds.
func (f *Flow[T]) TakeWhile(p func(T) bool) *Flow[T] { return TakeWhile(p)(f) }

// SkipWhile drops values while p holds.
func (f *Flow[T]) SkipWhile(p func(T) bool) *Flow[T] { return SkipWhile(p)(f) }

// --- Iterator implementations ---

type takeIter[T any] struct {
	stage[T]
	remaining int
}

func (it *takeIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	if it.remaining <= 0 {
		it.release()
		var zero T
		return zero, false, nil
	}
	val, ok, err := it.pull(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	it.remaining--
	if it.remaining == 0 {
		it.release()
	}
	return val, true, nil
}

type skipIter[T any] struct {
	stage[T]
	remaining int
}

func (it *skipIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for it.remaining > 0 {
		_, ok, err := it.pull(ctx)
		if err != nil || !ok {
			var zero T
			return zero, ok, err
		}
		it.remaining--
	}
	return it.pull(ctx)
}

type takeWhileIter[T any] struct {
	stage[T]
	p func(T) bool
}

func (it *takeWhileIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	val, ok, err := it.pull(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if !it.p(val) {
		it.release()
		var zero T
		return zero, false, nil
	}
	return val, true, nil
}

type skipWhileIter[T any] struct {
	stage[T]
	p        func(T) bool
	emitting bool
}

func (it *skipWhileIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for {
		val, ok, err := it.pull(ctx)
		if err != nil || !ok || it.emitting {
			return val, ok, err
		}
		if !it.p(val) {
			it.emitting = true
			return val, true, nil
		}
	}
}
