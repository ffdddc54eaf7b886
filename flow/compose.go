package flow

import (
	"fmt"

	"github.com/kbukum/flowkit/errors"
)

// Pipe applies same-type operations left to right. With no operations it
// returns f itself.
func (f *Flow[T]) Pipe(ops ...Operation[T, T]) *Flow[T] {
	out := f
	for _, op := range ops {
		out = op(out)
	}
	return out
}

// Then applies a single operation that may change the element type.
//
//	ints := flow.FromSlice([]int{1, 2, 3})
//	strs := flow.Then(ints, flow.Map(func(n int) (string, error) { return strconv.Itoa(n), nil }))
func Then[A, B any](f *Flow[A], op Operation[A, B]) *Flow[B] {
	return op(f)
}

// Stage is a type-erased operation for pipelines assembled at runtime.
type Stage struct {
	in, out string
	apply   func(any) (any, bool)
}

// Step erases the types of op so it can be passed to Compose.
func Step[A, B any](op Operation[A, B]) Stage {
	return Stage{
		in:  flowType[A](),
		out: flowType[B](),
		apply: func(v any) (any, bool) {
			f, ok := v.(*Flow[A])
			if !ok {
				return nil, false
			}
			return op(f), true
		},
	}
}

// String describes the stage as "input -> output".
func (s Stage) String() string {
	return s.in + " -> " + s.out
}

// Compose threads f through stages in order and asserts the final element
// type R. A stage receiving a flow of the wrong type, or a final flow that is
// not a *Flow[R], yields a STAGE_MISMATCH error. Nothing is pulled.
func Compose[T, R any](f *Flow[T], stages ...Stage) (*Flow[R], error) {
	var cur any = f
	for i, s := range stages {
		if s.apply == nil {
			return nil, errors.StageMismatch(i, "an initialized stage", "zero Stage")
		}
		next, ok := s.apply(cur)
		if !ok {
			return nil, errors.StageMismatch(i, s.in, fmt.Sprintf("%T", cur))
		}
		cur = next
	}
	out, ok := cur.(*Flow[R])
	if !ok {
		return nil, errors.StageMismatch(len(stages), flowType[R](), fmt.Sprintf("%T", cur))
	}
	return out, nil
}

func flowType[T any]() string {
	return fmt.Sprintf("%T", (*Flow[T])(nil))
}
