package reconcile

import (
	"context"
	"time"

	"github.com/fwojciec/docsync"
)

// DefaultRetryDelays returns the backoff delays for remote operation
// retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryResult reports the outcome of a retried operation so tests can
// simulate exhausted retries deterministically.
type RetryResult struct {
	// Attempts is the total number of attempts made, including the
	// first one.
	Attempts int

	// Err is the last error observed, nil on success.
	Err error
}

// Succeeded reports whether the operation eventually completed.
func (r RetryResult) Succeeded() bool {
	return r.Err == nil
}

// Retry runs op with bounded retries. Only transient errors (code
// EUNAVAILABLE) are retried; permanent errors return immediately.
// With N delays, at most N+1 attempts are made. The context is
// checked before each sleep so cancellation is not delayed by backoff.
func Retry(ctx context.Context, delays []time.Duration, op func(ctx context.Context) error) RetryResult {
	maxAttempts := len(delays) + 1

	var result RetryResult
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result.Attempts = attempt + 1
		result.Err = op(ctx)
		if result.Err == nil {
			return result
		}

		// Permanent failures are not retried.
		if docsync.ErrorCode(result.Err) != docsync.EUNAVAILABLE {
			return result
		}

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			result.Err = ctx.Err()
			return result
		case <-time.After(delays[attempt]):
		}
	}

	return result
}
