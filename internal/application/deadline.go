package application

import (
	"context"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
)

type taskResult[T any] struct {
	value T
	err   error
}

// runWithDeadline races fn against a client-side deadline. Whichever settles
// first wins; a result arriving after the deadline is dropped and fn's
// context is cancelled.
func runWithDeadline[T any](ctx context.Context, op string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so a late settlement never blocks the task goroutine.
	results := make(chan taskResult[T], 1)
	go func() {
		value, err := fn(taskCtx)
		results <- taskResult[T]{value: value, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case result := <-results:
		return result.value, result.err
	case <-timer.C:
		return zero, &domain.TimeoutError{Op: op, After: timeout}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
