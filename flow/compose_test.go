package flow

import (
	stderrors "errors"
	"strconv"
	"strings"
	"testing"

	"github.com/kbukum/flowkit/errors"
)

func TestPipe_Identity(t *testing.T) {
	f := FromSlice([]int{1, 2, 3})
	if f.Pipe() != f {
		t.Error("pipe with no operations must return the receiver")
	}
	if !intSliceEqual(mustCollectSync(t, f.Pipe()), mustCollectSync(t, f)) {
		t.Error("identity pipe must iterate like the source")
	}
}

func TestPipe_LeftToRight(t *testing.T) {
	addOne := Map(func(n int) (int, error) { return n + 1, nil })
	double := Map(func(n int) (int, error) { return n * 2, nil })
	got := mustCollectSync(t, FromSlice([]int{1, 2}).Pipe(addOne, double))
	if !intSliceEqual(got, []int{4, 6}) {
		t.Errorf("got %v", got)
	}
}

func TestThen(t *testing.T) {
	f := Then(FromSlice([]int{1, 22}), Map(func(n int) (string, error) { return strconv.Itoa(n), nil }))
	got := mustCollectSync(t, f)
	if strings.Join(got, ",") != "1,22" {
		t.Errorf("got %v", got)
	}
}

func TestCompose(t *testing.T) {
	stages := []Stage{
		Step(Filter(func(n int) bool { return n%2 == 1 })),
		Step(Map(func(n int) (string, error) { return strconv.Itoa(n), nil })),
		Step(Batch[string](2)),
	}
	f, err := Compose[int, []string](FromSlice([]int{1, 2, 3, 4, 5}), stages...)
	if err != nil {
		t.Fatal(err)
	}
	got := mustCollectSync(t, f)
	want := [][]string{{"1", "3"}, {"5"}}
	if !batchesEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompose_NoStages(t *testing.T) {
	src := FromSlice([]int{1})
	f, err := Compose[int, int](src)
	if err != nil {
		t.Fatal(err)
	}
	if f != src {
		t.Error("compose with no stages must return the receiver")
	}
	if _, err := Compose[int, string](src); !stderrors.Is(err, errors.ErrStageMismatch) {
		t.Errorf("expected STAGE_MISMATCH for the result type, got %v", err)
	}
}

func TestCompose_Mismatch(t *testing.T) {
	stages := []Stage{
		Step(Map(func(n int) (string, error) { return strconv.Itoa(n), nil })),
		Step(Take[int](1)),
	}
	_, err := Compose[int, int](FromSlice([]int{1}), stages...)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeStageMismatch {
		t.Fatalf("expected STAGE_MISMATCH, got %v", err)
	}
	if appErr.Details["stage"] != 1 {
		t.Errorf("expected mismatch at stage 1, got %v", appErr.Details["stage"])
	}
	if !strings.Contains(appErr.Message, "*flow.Flow[string]") {
		t.Errorf("expected message to name the received type, got %q", appErr.Message)
	}
}

func TestCompose_ZeroStage(t *testing.T) {
	_, err := Compose[int, int](FromSlice([]int{1}), Stage{})
	if !stderrors.Is(err, errors.ErrStageMismatch) {
		t.Errorf("expected STAGE_MISMATCH, got %v", err)
	}
}

func TestStage_String(t *testing.T) {
	s := Step(Map(func(n int) (string, error) { return "", nil }))
	if s.String() != "*flow.Flow[int] -> *flow.Flow[string]" {
		t.Errorf("got %q", s.String())
	}
}
