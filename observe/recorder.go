package observe

import (
	"context"
	"time"
)

// Traversal identifies one traversal of an observed flow.
type Traversal struct {
	// Name is the name given to Observe.
	Name string
	// ID is unique per traversal.
	ID string
}

// Status values reported when a traversal ends.
const (
	StatusExhausted = "exhausted"
	StatusFailed    = "failed"
	StatusClosed    = "closed"
)

// Summary describes a finished traversal.
type Summary struct {
	Items    int64
	Duration time.Duration
	Status   string
}

// Recorder receives traversal lifecycle events. Implementations must be safe
// for concurrent use because independent traversals may run in parallel.
type Recorder interface {
	TraversalStarted(ctx context.Context, t Traversal)
	ItemEmitted(ctx context.Context, t Traversal)
	PullFailed(ctx context.Context, t Traversal, err error)
	TraversalEnded(ctx context.Context, t Traversal, s Summary)
}

// multiRecorder fans events out to several recorders.
type multiRecorder []Recorder

func (m multiRecorder) TraversalStarted(ctx context.Context, t Traversal) {
	for _, r := range m {
		r.TraversalStarted(ctx, t)
	}
}

func (m multiRecorder) ItemEmitted(ctx context.Context, t Traversal) {
	for _, r := range m {
		r.ItemEmitted(ctx, t)
	}
}

func (m multiRecorder) PullFailed(ctx context.Context, t Traversal, err error) {
	for _, r := range m {
		r.PullFailed(ctx, t, err)
	}
}

func (m multiRecorder) TraversalEnded(ctx context.Context, t Traversal, s Summary) {
	for _, r := range m {
		r.TraversalEnded(ctx, t, s)
	}
}
