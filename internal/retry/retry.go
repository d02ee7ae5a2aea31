package retry

import (
	"context"
	"time"
)

// Policy is a bounded-attempt exponential backoff: attempt N sleeps
// BaseDelay * 2^(N-1) before the next try.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Do runs op until it succeeds or MaxAttempts is exhausted, returning the
// last error. Backoff sleeps are context-aware; a cancelled context returns
// ctx.Err() without further attempts.
func (p Policy) Do(ctx context.Context, op func() error) error {
	var last error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = op()
		if last == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		delay := p.BaseDelay << (attempt - 1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return last
}
