package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/logger"
	"github.com/abakymuk/DriverOS/internal/metrics"
)

const DefaultAttempts = 3

// Postgres SQLSTATE codes we react to.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
)

type TxFunc func(tx *sqlx.Tx) error

// WithTx runs fn inside a transaction, committing on success.
func WithTx(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, fn TxFunc) error {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// lockingTxOptions apply to RetryTx. fn must take its row locks with
// SELECT ... FOR UPDATE before reading what it changes: under READ COMMITTED
// a waiter then reads the holder's committed row instead of failing, so
// writers queue on the lock however many processes share the database.
var lockingTxOptions = sql.TxOptions{Isolation: sql.LevelReadCommitted}

// RetryTx runs fn in a READ COMMITTED transaction and replays it when
// Postgres aborts it with a deadlock or serialization failure. After
// maxAttempts the race is reported as a conflict.
func RetryTx(ctx context.Context, db *sqlx.DB, maxAttempts int, fn TxFunc) error {
	if maxAttempts < 1 {
		maxAttempts = DefaultAttempts
	}

	opts := lockingTxOptions

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = WithTx(ctx, db, &opts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}

		metrics.RecordTxRetry()
		logger.Debug("retrying transaction", "attempt", attempt, "error", err.Error())

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*attempt) * 10 * time.Millisecond):
		}
	}

	return fmt.Errorf("%w: %v", apperror.Conflict("concurrent update detected, please retry"), err)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsRetryable(err error) bool {
	code := pqCode(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}

func IsUniqueViolation(err error) bool {
	return pqCode(err) == codeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return pqCode(err) == codeForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	return pqCode(err) == codeCheckViolation
}
