package usecase

import (
	"context"
	stderrors "errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"stockledger/internal/errors"
)

// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms).
var retryBackoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

// withDeadlockRetry re-runs fn when MySQL reports a deadlock or lock wait
// timeout, backing off with ±20% jitter between attempts. Exhausting the
// attempts surfaces a ConflictError so the caller can retry the whole
// operation.
func withDeadlockRetry(ctx context.Context, logger *zap.Logger, maxAttempts int, fn func() error) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !isDeadlockError(err) {
			return err
		}

		if attempt < maxAttempts {
			backoff := retryBackoffs[min(attempt, len(retryBackoffs))-1]
			jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
			logger.Warn("deadlock detected, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
			)
			select {
			case <-time.After(jitter):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return errors.NewConflictError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
