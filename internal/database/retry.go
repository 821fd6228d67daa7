package database

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// retry limits for transient storage failures
const (
	maxRetries         = 3
	initialRetryWait   = 50 * time.Millisecond
	maxElapsedRetrying = 2 * time.Second
)

// ErrTransient marks a storage failure that persisted past the retry
// budget. Callers surface it distinctly from domain errors.
var ErrTransient = errors.New("transient storage failure")

// WithRetry runs op, retrying with exponential backoff while the error is a
// known transient condition (lock contention, deadlock, serialization
// failure). Non-transient errors return immediately. Only use for
// operations that are safe to re-execute.
func WithRetry(logger *zap.Logger, name string, op func() error) error {
	attempt := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialRetryWait
	b.MaxElapsedTime = maxElapsedRetrying

	err := backoff.RetryNotify(
		attempt,
		backoff.WithMaxRetries(b, maxRetries),
		func(err error, d time.Duration) {
			logger.Warn("retrying storage operation",
				zap.String("operation", name),
				zap.Error(err),
				zap.Duration("backoff", d))
		},
	)
	if err == nil {
		return nil
	}

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return errors.Join(ErrTransient, err)
}

// isTransient reports whether err is a retryable driver-level condition
func isTransient(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// serialization_failure, deadlock_detected
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// ER_LOCK_DEADLOCK, ER_LOCK_WAIT_TIMEOUT
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}

	return false
}
