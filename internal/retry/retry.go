// Package retry provides a small fixed-delay retry combinator for
// calls to flaky upstream APIs.
package retry

import (
	"context"
	"time"
)

// Do invokes op up to attempts times, sleeping delay between tries.
// It returns the first successful result, or the last error once the
// attempts are exhausted. Context cancellation aborts the wait and
// returns ctx.Err.
func Do[T any](ctx context.Context, attempts int, delay time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	if attempts < 1 {
		attempts = 1
	}
	var (
		result  T
		lastErr error
	)
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
		result, lastErr = op(ctx)
		if lastErr == nil {
			return result, nil
		}
	}
	var zero T
	return zero, lastErr
}
