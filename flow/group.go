package flow

import (
	"context"
	"slices"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
)

// Batch groups consecutive values into slices of size. The trailing partial
// group is emitted when the source is exhausted.
//
// size <= 0 is rejected: the returned flow carries an INVALID_ARGUMENT error
// that Err reports and that the first pull of every traversal returns,
// without pulling upstream.
func Batch[T any](size int) Operation[T, []T] {
	return func(f *Flow[T]) *Flow[[]T] {
		if size <= 0 && f.err == nil {
			err := errors.InvalidArgument("size", "batch size must be positive").
				WithDetail("operator", "batch").
				WithDetail("size", size)
			log().Warn("rejected batch", logger.Fields(logger.FieldStage, "batch", "size", size))
			return failed[[]T](f.mode, err)
		}
		return derive(f, f.mode, func(up Iterator[T]) Iterator[[]T] {
			return &batchIter[T]{stage: stage[T]{source: up}, size: size}
		})
	}
}

// Window emits sliding windows of size consecutive values, advancing by one.
// A source shorter than size emits nothing, and so does size <= 0. Each
// emitted window is a fresh slice the caller may keep.
func Window[T any](size int) Operation[T, []T] {
	return func(f *Flow[T]) *Flow[[]T] {
		return derive(f, f.mode, func(up Iterator[T]) Iterator[[]T] {
			return &windowIter[T]{stage: stage[T]{source: up}, size: size}
		})
	}
}

// --- Iterator implementations ---

// maxPrealloc bounds the buffer capacity reserved up front; larger groups
// grow as values arrive.
const maxPrealloc = 64

type batchIter[T any] struct {
	stage[T]
	size int
	buf  []T
	done bool
}

func (it *batchIter[T]) Next(ctx context.Context) (result []T, ok bool, err error) {
	if it.done {
		return nil, false, nil
	}
	if it.buf == nil {
		it.buf = make([]T, 0, min(it.size, maxPrealloc))
	}
	for len(it.buf) < it.size {
		val, ok, err := it.pull(ctx)
		if err != nil {
			it.buf = nil
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		it.buf = append(it.buf, val)
	}
	if len(it.buf) == 0 {
		return nil, false, nil
	}
	batch := it.buf
	it.buf = nil
	return batch, true, nil
}

type windowIter[T any] struct {
	stage[T]
	size int
	buf  []T
	done bool
}

func (it *windowIter[T]) Next(ctx context.Context) (result []T, ok bool, err error) {
	if it.done || it.size <= 0 {
		it.done = true
		return nil, false, nil
	}
	if len(it.buf) == it.size {
		// Slide: drop the oldest value before pulling the next one.
		copy(it.buf, it.buf[1:])
		it.buf = it.buf[:it.size-1]
	}
	for len(it.buf) < it.size {
		val, ok, err := it.pull(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			return nil, false, nil
		}
		if it.buf == nil {
			it.buf = make([]T, 0, min(it.size, maxPrealloc))
		}
		it.buf = append(it.buf, val)
	}
	return slices.Clone(it.buf), true, nil
}
