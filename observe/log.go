package observe

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kbukum/flowkit/logger"
)

// LogRecorder writes traversal lifecycle events as debug log lines. Failed
// pulls are logged at warn level.
type LogRecorder struct {
	log *logger.Logger
}

// NewLogRecorder creates a recorder that logs through l. A nil l uses the
// "observe" component logger.
func NewLogRecorder(l *logger.Logger) *LogRecorder {
	if l == nil {
		l = logger.Get("observe")
	}
	return &LogRecorder{log: l}
}

func (r *LogRecorder) TraversalStarted(ctx context.Context, t Traversal) {
	if !r.log.Enabled(zerolog.DebugLevel) {
		return
	}
	r.with(ctx, t).Debug("traversal started")
}

func (r *LogRecorder) ItemEmitted(context.Context, Traversal) {}

func (r *LogRecorder) PullFailed(ctx context.Context, t Traversal, err error) {
	r.with(ctx, t).Warn("pull failed", logger.ErrorFields("pull", err))
}

func (r *LogRecorder) TraversalEnded(ctx context.Context, t Traversal, s Summary) {
	if !r.log.Enabled(zerolog.DebugLevel) {
		return
	}
	r.with(ctx, t).Debug("traversal ended", logger.Fields(
		logger.FieldItems, s.Items,
		logger.FieldStatus, s.Status,
		logger.FieldDuration, s.Duration.Milliseconds(),
	))
}

func (r *LogRecorder) with(ctx context.Context, t Traversal) *logger.Logger {
	return r.log.
		WithContext(logger.ContextWithTraversalID(ctx, t.ID)).
		WithFields(logger.Fields(logger.FieldStage, t.Name))
}
