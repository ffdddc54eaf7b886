// Package flow provides lazy, pull-based sequence pipelines.
//
// A Flow wraps a finite or infinite source that is produced either
// synchronously (slices, iter.Seq, generators) or asynchronously (channels,
// remote cursors). Nothing is pulled until a traversal is opened with Iter,
// SyncIter, All, or one of the terminals (Collect, CollectSync, ForEach,
// Drain). Every traversal owns its own iterator state, so a Flow built over a
// reiterable source can be traversed any number of times, concurrently.
//
// Operators are plain functions from one Flow to another:
//
//	words := flow.FromSlice([]string{"a", "bb", "ccc", "dd"})
//	long := words.Filter(func(s string) bool { return len(s) > 1 })
//	lengths := flow.Then(long, flow.Map(func(s string) (int, error) { return len(s), nil }))
//	groups := flow.Then(lengths, flow.Batch[int](2))
//	out, err := flow.CollectSync(groups) // [[2 3] [2]]
//
// Each Flow carries a Mode. ModeSync flows can be pulled synchronously with
// SyncIter and never block on anything but caller code; ModeAsync flows may
// suspend and only support Iter. Operators that may suspend (MapAsync,
// RateLimit, async sources) produce ModeAsync flows.
//
// Operators that stop early (Take, TakeWhile, Zip) close their upstream as
// soon as they stop pulling. Closing a traversal iterator closes the whole
// chain and is idempotent.
package flow
