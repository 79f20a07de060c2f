package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// ErrStorageUnavailable is wrapped by every error returned after a storage
// call failed on all attempts.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Retrier runs storage calls under a bounded retry policy with a fixed pause
// between attempts. Record-not-found and context errors are not retried.
type Retrier struct {
	attempts int
	wait     time.Duration
}

func NewRetrier(attempts int, wait time.Duration) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{attempts: attempts, wait: wait}
}

func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.wait), uint64(r.attempts-1)),
		ctx,
	)

	attempt := 0
	permanent := false
	err := backoff.Retry(func() error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			permanent = true
			return backoff.Permanent(err)
		}
		log.Warnf("%s failed (attempt %d/%d): %v", op, attempt, r.attempts, err)
		return err
	}, policy)

	if err == nil || permanent {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%s: %w after %d attempt(s): %w", op, ErrStorageUnavailable, attempt, err)
}

func isPermanent(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
