package flow_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/flowkit/flow"
)

func ExampleBatch() {
	groups, _ := flow.CollectSync(flow.Then(flow.FromSlice([]int{1, 2, 3, 4, 5}), flow.Batch[int](2)))
	fmt.Println(groups)
	// Output: [[1 2] [3 4] [5]]
}

func ExampleWindow() {
	windows, _ := flow.CollectSync(flow.Then(flow.FromSlice([]int{1, 2, 3, 4, 5}), flow.Window[int](3)))
	fmt.Println(windows)
	// Output: [[1 2 3] [2 3 4] [3 4 5]]
}

func ExampleZip() {
	pairs, _ := flow.CollectSync(flow.Then(flow.FromSlice([]int{1, 2, 3}), flow.Zip[int](flow.FromSlice([]string{"a", "b"}))))
	for _, p := range pairs {
		fmt.Println(p.First, p.Second)
	}
	// Output:
	// 1 a
	// 2 b
}

func ExampleFlow_SkipWhile() {
	out, _ := flow.CollectSync(flow.FromSlice([]int{1, 4, 2, 3, 5, 2}).SkipWhile(func(n int) bool { return n < 4 }))
	fmt.Println(out)
	// Output: [4 2 3 5 2]
}

func ExampleFlow_All() {
	words := flow.FromSlice([]string{"lazy", "pull", "flow"})
	upper := flow.Then(words, flow.Map(func(s string) (string, error) { return strings.ToUpper(s), nil }))
	for w, err := range upper.All(context.Background()) {
		if err != nil {
			break
		}
		fmt.Println(w)
	}
	// Output:
	// LAZY
	// PULL
	// FLOW
}
