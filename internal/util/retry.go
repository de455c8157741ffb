// ABOUTME: Retry policy for calls to external providers
// ABOUTME: Bounded attempts with a fixed delay and a pluggable retryable-error classifier
package util

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy bounds retries around an unreliable call.
// Retryable decides whether an error is worth another attempt;
// a nil Retryable treats every error as transient.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

// DefaultRetryPolicy matches the provider clients: 3 attempts, 2s apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 2 * time.Second}
}

// Do runs fn until it succeeds, attempts are exhausted, or ctx is done.
// The last error is returned wrapped with the attempt count.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
