// Package loader runs data loads behind a cancellable delay.
package loader

import (
	"context"
	"time"
)

// Run waits for delay and then returns fn's result. If ctx ends first the
// timer is released, fn is never called and ctx.Err() is returned.
func Run[T any](ctx context.Context, delay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if err := Wait(ctx, delay); err != nil {
		return zero, err
	}
	return fn()
}

// Wait blocks for delay or until ctx is done, whichever comes first.
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
