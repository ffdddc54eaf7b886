package flow

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"testing"
	"time"
)

func TestMap(t *testing.T) {
	f := Then(FromSlice([]int{1, 2, 3}), Map(func(n int) (string, error) {
		return strconv.Itoa(n * 10), nil
	}))
	if f.IsAsync() {
		t.Error("map keeps sync mode")
	}
	got := mustCollectSync(t, f)
	want := []string{"10", "20", "30"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestMap_Error(t *testing.T) {
	boom := fmt.Errorf("boom")
	p := &probe{}
	f := Then(p.flow([]int{1, 2, 3}), Map(func(n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	}))
	got, err := CollectSync(f)
	if err != boom {
		t.Fatalf("expected the function's error unmodified, got %v", err)
	}
	if !intSliceEqual(got, []int{1}) {
		t.Errorf("got %v", got)
	}
	if p.pulls != 2 {
		t.Errorf("expected no pull after the failure, got %d pulls", p.pulls)
	}
}

func TestMapAsync(t *testing.T) {
	f := Then(FromSlice([]int{1, 2, 3}), MapAsync(func(ctx context.Context, n int) (int, error) {
		select {
		case <-time.After(time.Millisecond):
			return n * n, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}))
	if !f.IsAsync() {
		t.Fatal("map async produces an async flow")
	}
	if _, err := f.SyncIter(); err == nil {
		t.Error("expected sync traversal to be rejected")
	}
	if got := mustCollect(t, f); !intSliceEqual(got, []int{1, 4, 9}) {
		t.Errorf("got %v", got)
	}
}

func TestMapAsync_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := Then(Generate(func() int { return 1 }), MapAsync(func(ctx context.Context, n int) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}))
	cancel()
	_, err := Collect(ctx, f)
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFilter(t *testing.T) {
	got := mustCollectSync(t, FromSlice([]int{1, 2, 3, 4, 5, 6}).Filter(func(n int) bool { return n%2 == 0 }))
	if !intSliceEqual(got, []int{2, 4, 6}) {
		t.Errorf("got %v", got)
	}
}

func TestFilter_NoneMatch(t *testing.T) {
	got := mustCollectSync(t, FromSlice([]int{1, 3}).Pipe(Filter(func(n int) bool { return n%2 == 0 })))
	if len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestTap(t *testing.T) {
	var seen []int
	got := mustCollectSync(t, FromSlice([]int{1, 2, 3}).Pipe(Tap(func(n int) error {
		seen = append(seen, n)
		return nil
	})))
	if !intSliceEqual(got, []int{1, 2, 3}) || !intSliceEqual(seen, got) {
		t.Errorf("got %v, seen %v", got, seen)
	}
}

func TestTap_Error(t *testing.T) {
	boom := fmt.Errorf("boom")
	_, err := CollectSync(FromSlice([]int{1, 2}).Pipe(Tap(func(int) error { return boom })))
	if err != boom {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestMapFilter_OrderMatters(t *testing.T) {
	src := []int{1, 2, 3, 4, 5}
	double := Map(func(n int) (int, error) { return n * 2, nil })
	small := Filter(func(n int) bool { return n < 5 })

	mapThenFilter := mustCollectSync(t, FromSlice(src).Pipe(double, small))
	filterThenMap := mustCollectSync(t, FromSlice(src).Pipe(small, double))

	var wantMF, wantFM []int
	for _, n := range src {
		if n*2 < 5 {
			wantMF = append(wantMF, n*2)
		}
		if n < 5 {
			wantFM = append(wantFM, n*2)
		}
	}
	if !intSliceEqual(mapThenFilter, wantMF) {
		t.Errorf("map then filter: got %v, want %v", mapThenFilter, wantMF)
	}
	if !intSliceEqual(filterThenMap, wantFM) {
		t.Errorf("filter then map: got %v, want %v", filterThenMap, wantFM)
	}
	if intSliceEqual(mapThenFilter, filterThenMap) {
		t.Error("expected different results for different orders")
	}
}
