package flow

import (
	"context"
	"sync"
)

// Pair holds two values emitted together by Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Concat emits every value of the source, then every value of each flow in
// order. The next flow's traversal is opened only when its predecessor is
// exhausted. The result is ModeAsync if any input is.
func Concat[T any](flows ...*Flow[T]) Operation[T, T] {
	return func(f *Flow[T]) *Flow[T] {
		all := append([]*Flow[T]{f}, flows...)
		mode := ModeSync
		var err error
		for _, fl := range all {
			if fl.mode == ModeAsync {
				mode = ModeAsync
			}
			if err == nil {
				err = fl.err
			}
		}
		if err != nil {
			return failed[T](mode, err)
		}
		return &Flow[T]{
			mode: mode,
			open: func(ctx context.Context, p protocol) Iterator[T] {
				return &concatIter[T]{
					open: func(i int) Iterator[T] { return all[i].open(ctx, p) },
					n:    len(all),
				}
			},
		}
	}
}

// Concat appends flows after f.
func (f *Flow[T]) Concat(flows ...*Flow[T]) *Flow[T] { return Concat(flows...)(f) }

// Zip pairs values of the source and other by position and stops at the first
// exhaustion on either side, closing both.
//
// When both flows are ModeSync the two pulls happen one after the other,
// source first. Otherwise both pulls are started concurrently and awaited
// together, and the result is ModeAsync; if both fail, the source's error is
// returned.
func Zip[A, B any](other *Flow[B]) Operation[A, Pair[A, B]] {
	return func(f *Flow[A]) *Flow[Pair[A, B]] {
		mode := ModeSync
		if f.mode == ModeAsync || other.mode == ModeAsync {
			mode = ModeAsync
		}
		if f.err != nil {
			return failed[Pair[A, B]](mode, f.err)
		}
		if other.err != nil {
			return failed[Pair[A, B]](mode, other.err)
		}
		return &Flow[Pair[A, B]]{
			mode: mode,
			open: func(ctx context.Context, p protocol) Iterator[Pair[A, B]] {
				return &zipIter[A, B]{
					left:       stage[A]{source: f.open(ctx, p)},
					right:      stage[B]{source: other.open(ctx, p)},
					concurrent: mode == ModeAsync,
				}
			},
		}
	}
}

// --- Iterator implementations ---

type concatIter[T any] struct {
	open    func(i int) Iterator[T]
	n       int
	index   int
	current Iterator[T]
	closed  bool
}

func (it *concatIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for !it.closed && it.index < it.n {
		if it.current == nil {
			it.current = it.open(it.index)
		}
		val, ok, err := it.current.Next(ctx)
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		cur := it.current
		it.current = nil
		it.index++
		if err := cur.Close(); err != nil {
			var zero T
			return zero, false, err
		}
	}
	var zero T
	return zero, false, nil
}

func (it *concatIter[T]) Close() error {
	it.closed = true
	if it.current == nil {
		return nil
	}
	cur := it.current
	it.current = nil
	return cur.Close()
}

type zipIter[A, B any] struct {
	left       stage[A]
	right      stage[B]
	concurrent bool
	done       bool
}

func (it *zipIter[A, B]) Next(ctx context.Context) (result Pair[A, B], ok bool, err error) {
	if it.done {
		return result, false, nil
	}

	var (
		a          A
		b          B
		okA, okB   bool
		errA, errB error
	)
	if it.concurrent {
		var wg sync.WaitGroup
		wg.Go(func() { a, okA, errA = it.left.pull(ctx) })
		wg.Go(func() { b, okB, errB = it.right.pull(ctx) })
		wg.Wait()
	} else {
		a, okA, errA = it.left.pull(ctx)
		if errA == nil && okA {
			b, okB, errB = it.right.pull(ctx)
		}
	}

	if errA != nil {
		return result, false, errA
	}
	if errB != nil {
		return result, false, errB
	}
	if !okA || !okB {
		it.done = true
		if err := it.Close(); err != nil {
			return result, false, err
		}
		return result, false, nil
	}
	return Pair[A, B]{First: a, Second: b}, true, nil
}

func (it *zipIter[A, B]) Close() error {
	errA := it.left.Close()
	errB := it.right.Close()
	if errA != nil {
		return errA
	}
	return errB
}
