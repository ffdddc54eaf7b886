package flow

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"
)

func TestConcat(t *testing.T) {
	got := mustCollectSync(t, FromSlice([]int{1, 2}).Concat(FromSlice([]int{3, 4})))
	if !intSliceEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("got %v", got)
	}
}

func TestConcat_Many(t *testing.T) {
	a, b, c := []int{1}, []int{}, []int{2, 3}
	f := Then(FromSlice(a), Concat(FromSlice(b), FromSlice(c)))
	got := mustCollectSync(t, f)
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
	if len(got) != len(a)+len(b)+len(c) {
		t.Errorf("count %d", len(got))
	}
}

func TestConcat_NoArgs(t *testing.T) {
	got := mustCollectSync(t, FromSlice([]int{1, 2}).Concat())
	if !intSliceEqual(got, []int{1, 2}) {
		t.Errorf("got %v", got)
	}
}

func TestConcat_OpensLazily(t *testing.T) {
	first, second := &probe{}, &probe{}
	it, err := first.flow([]int{1, 2}).Concat(second.flow([]int{3})).SyncIter()
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	it.Next()
	it.Next()
	if second.opens != 0 {
		t.Fatal("second flow opened before the first was exhausted")
	}
	v, ok, err := it.Next()
	if err != nil || !ok || v != 3 {
		t.Fatalf("got %v %v %v", v, ok, err)
	}
	if first.closes != 1 {
		t.Errorf("expected exhausted flow closed, got %d", first.closes)
	}
	if second.opens != 1 {
		t.Errorf("expected second flow opened once, got %d", second.opens)
	}
}

func TestConcat_AsyncIfAnyAsync(t *testing.T) {
	f := FromSlice([]int{1}).Concat(asyncSlice([]int{2}, 0))
	if !f.IsAsync() {
		t.Fatal("expected async concat")
	}
	if got := mustCollect(t, f); !intSliceEqual(got, []int{1, 2}) {
		t.Errorf("got %v", got)
	}
}

func TestConcat_FailedKeepsCombinedMode(t *testing.T) {
	f := FromSlice([]int{1}).Concat(Wrap(Source[int]{}), asyncSlice([]int{2}, 0))
	if f.Err() == nil {
		t.Fatal("expected construction error")
	}
	if !f.IsAsync() {
		t.Error("failed concat must report the combined mode")
	}
	if _, err := f.SyncIter(); err == nil {
		t.Error("expected sync traversal to be refused")
	}
}

func TestConcat_CloseMidway(t *testing.T) {
	first, second := &probe{}, &probe{}
	it := first.flow([]int{1}).Concat(second.flow([]int{2, 3})).Iter(context.Background())
	ctx := context.Background()
	it.Next(ctx)
	it.Next(ctx)
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if first.closes != 1 || second.closes != 1 {
		t.Errorf("expected both traversals closed once, got %d/%d", first.closes, second.closes)
	}
	if _, ok, _ := it.Next(ctx); ok {
		t.Error("closed concat must not emit")
	}
}

func TestZip(t *testing.T) {
	f := Then(FromSlice([]int{1, 2, 3}), Zip[int](FromSlice([]string{"a", "b"})))
	if f.IsAsync() {
		t.Error("zip of two sync flows is sync")
	}
	got := mustCollectSync(t, f)
	want := []Pair[int, string]{{1, "a"}, {2, "b"}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestZip_StopsAndClosesBothSides(t *testing.T) {
	left, right := &probe{}, &probe{}
	it, err := Then(left.flow([]int{1, 2, 3}), Zip[int](right.flow([]int{7}))).SyncIter()
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	if _, ok, _ := it.Next(); !ok {
		t.Fatal("expected one pair")
	}
	if _, ok, _ := it.Next(); ok {
		t.Fatal("expected exhaustion")
	}
	if left.closes != 1 || right.closes != 1 {
		t.Errorf("expected both sides closed at exhaustion, got %d/%d", left.closes, right.closes)
	}
	pulls := left.pulls + right.pulls
	it.Next()
	if left.pulls+right.pulls != pulls {
		t.Error("no pulls after exhaustion")
	}
}

func TestZip_AsyncPairsPositionally(t *testing.T) {
	fast := FromSlice([]int{1, 2, 3, 4})
	slow := asyncSlice([]string{"a", "b", "c"}, 5*time.Millisecond)
	f := Then(fast, Zip[int](slow))
	if !f.IsAsync() {
		t.Fatal("zip with an async side is async")
	}
	got := mustCollect(t, f)
	want := []Pair[int, string]{{1, "a"}, {2, "b"}, {3, "c"}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestZip_AsyncPullsConcurrently(t *testing.T) {
	left := asyncSlice([]int{1, 2, 3}, 30*time.Millisecond)
	right := asyncSlice([]int{4, 5, 6}, 30*time.Millisecond)
	start := time.Now()
	got := mustCollect(t, Then(left, Zip[int](right)))
	elapsed := time.Since(start)
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	// Sequential pulls would need at least 180ms.
	if elapsed >= 170*time.Millisecond {
		t.Errorf("expected concurrent pulls, took %v", elapsed)
	}
}

func TestZip_ErrorSourceFirst(t *testing.T) {
	leftErr := fmt.Errorf("left")
	rightErr := fmt.Errorf("right")
	left := Then(FromSync[int](&failAt{n: 0, err: leftErr}), MapAsync(func(_ context.Context, n int) (int, error) { return n, nil }))
	right := FromSync[int](&failAt{n: 0, err: rightErr})
	_, err := Collect(context.Background(), Then(left, Zip[int](right)))
	if err != leftErr {
		t.Errorf("expected the source's error to win, got %v", err)
	}

	_, err = Collect(context.Background(), Then(FromSlice([]int{1}), Zip[int](right.RateLimit(0))))
	if err != rightErr {
		t.Errorf("expected the other side's error, got %v", err)
	}
}

func TestZip_SyncErrorSkipsOtherPull(t *testing.T) {
	boom := fmt.Errorf("boom")
	right := &probe{}
	_, err := CollectSync(Then(FromSync[int](&failAt{n: 0, err: boom}), Zip[int](right.flow([]int{1}))))
	if err != boom {
		t.Fatalf("expected boom, got %v", err)
	}
	if right.pulls != 0 {
		t.Errorf("sync coupling pulls the other side only after the source, got %d", right.pulls)
	}
}

func TestZip_Reiterable(t *testing.T) {
	f := Then(FromSlice([]int{1, 2}), Zip[int](FromSlice([]int{3, 4})))
	a := mustCollectSync(t, f)
	b := mustCollect(t, f)
	if !slices.Equal(a, b) {
		t.Errorf("got %v and %v", a, b)
	}
}
