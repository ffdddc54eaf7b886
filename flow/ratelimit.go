package flow

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/kbukum/flowkit/logger"
)

// RateLimitOption configures RateLimit.
type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	clock clockz.Clock
}

// WithClock sets the clock used to measure and wait out intervals.
// Defaults to clockz.RealClock.
func WithClock(clock clockz.Clock) RateLimitOption {
	return func(c *rateLimitConfig) {
		c.clock = clock
	}
}

// RateLimit spaces emissions at least minInterval apart. The first value is
// emitted as soon as it is pulled; later values wait out the remainder of the
// interval since the previous emission. The wait honours ctx. The result is
// always ModeAsync.
func RateLimit[T any](minInterval time.Duration, opts ...RateLimitOption) Operation[T, T] {
	cfg := rateLimitConfig{clock: clockz.RealClock}
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(f *Flow[T]) *Flow[T] {
		return derive(f, ModeAsync, func(up Iterator[T]) Iterator[T] {
			return &rateLimitIter[T]{
				stage:    stage[T]{source: up},
				interval: minInterval,
				clock:    cfg.clock,
			}
		})
	}
}

// RateLimit spaces emissions at least minInterval apart.
func (f *Flow[T]) RateLimit(minInterval time.Duration, opts ...RateLimitOption) *Flow[T] {
	return RateLimit[T](minInterval, opts...)(f)
}

type rateLimitIter[T any] struct {
	stage[T]
	interval time.Duration
	clock    clockz.Clock
	lastEmit time.Time
	emitted  bool
}

func (it *rateLimitIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	val, ok, err := it.pull(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if it.emitted {
		if wait := it.interval - it.clock.Since(it.lastEmit); wait > 0 {
			log().Debug("rate limit wait", logger.Fields(logger.FieldStage, "rate_limit", logger.FieldWait, wait.Milliseconds()))
			select {
			case <-it.clock.After(wait):
			case <-ctx.Done():
				var zero T
				return zero, false, ctx.Err()
			}
		}
	}
	it.lastEmit = it.clock.Now()
	it.emitted = true
	return val, true, nil
}
