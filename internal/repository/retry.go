package repository

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Retry policy for transient storage errors on read paths. Writes and
// anything running inside the checkout transaction are never retried here:
// business-level atomicity must not be accidentally replayed.
const (
	retryMaxAttempts  = 3
	retryInitialDelay = 50 * time.Millisecond
	retryMaxDelay     = 500 * time.Millisecond
)

// withReadRetry runs fn, retrying with bounded exponential backoff when pgx
// reports the error as safe to retry (the statement never reached the
// server). Any other error is returned immediately.
func withReadRetry[T any](ctx context.Context, logger zerolog.Logger, op string, fn func() (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialDelay
	policy.MaxInterval = retryMaxDelay

	var result T
	attempt := func() error {
		var err error
		result, err = fn()
		if err == nil {
			return nil
		}
		if !pgconn.SafeToRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		logger.Warn().
			Err(err).
			Str("operation", op).
			Dur("retry_in", next).
			Msg("transient storage error, retrying")
	}

	err := backoff.RetryNotify(
		attempt,
		backoff.WithContext(backoff.WithMaxRetries(policy, retryMaxAttempts), ctx),
		notify,
	)
	return result, err
}
