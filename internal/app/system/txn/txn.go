// Package txn provides the optimistic-concurrency retry loop used for
// summary document updates.
//
// Summary writes are version-stamped read-modify-write operations: the
// store reads a document, mutates a copy, and writes it back filtered on
// the version it read. A concurrent writer makes that filter miss, which
// the store reports as ErrConflict; WithRetry re-runs the attempt with
// exponential backoff until it commits or the retry budget is exhausted.
package txn

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrConflict is returned by an attempt when a concurrent writer
// committed between the read and the write. WithRetry retries on it.
var ErrConflict = errors.New("txn: write conflict")

// ErrRetryBudget is returned when every attempt failed with ErrConflict.
// The caller treats this as fatal for that one sub-update.
var ErrRetryBudget = errors.New("txn: retry budget exhausted")

// Default retry tuning. At 8 attempts the total worst-case backoff is
// well under a second, which keeps request latency bounded even on a
// heavily contended summary document.
const (
	DefaultMaxAttempts = 8
	baseBackoff        = 5 * time.Millisecond
	maxBackoff         = 200 * time.Millisecond
)

// WithRetry runs attempt until it returns nil or a non-conflict error.
// Conflicts are retried up to maxAttempts times with jittered exponential
// backoff; if maxAttempts <= 0, DefaultMaxAttempts is used. Context
// cancellation aborts the loop between attempts.
func WithRetry(ctx context.Context, maxAttempts int, attempt func(ctx context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	backoff := baseBackoff
	for i := 0; i < maxAttempts; i++ {
		err := attempt(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConflict) {
			return err
		}
		if i == maxAttempts-1 {
			break
		}

		// Full jitter: sleep a random duration in [0, backoff).
		select {
		case <-time.After(time.Duration(rand.Int63n(int64(backoff)))):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
	return fmt.Errorf("%w after %d attempts", ErrRetryBudget, maxAttempts)
}
