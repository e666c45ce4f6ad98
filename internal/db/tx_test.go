package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abakymuk/DriverOS/internal/apperror"
)

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlx.NewDb(sqlDB, "sqlmock"), mock
}

func TestWithTxCommits(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE slots").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), dbx, nil, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE slots SET booked = 1")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := WithTx(context.Background(), dbx, nil, func(tx *sqlx.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryTxRunsReadCommitted(t *testing.T) {
	assert.Equal(t, sql.LevelReadCommitted, lockingTxOptions.Isolation)
	assert.False(t, lockingTxOptions.ReadOnly)
}

func TestRetryTxReplaysSerializationFailure(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE slots").WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE slots").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	calls := 0
	err := RetryTx(context.Background(), dbx, 3, func(tx *sqlx.Tx) error {
		calls++
		_, err := tx.Exec("UPDATE slots SET booked = 1")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryTxGivesUpAsConflict(t *testing.T) {
	dbx, mock := setupMock(t)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE slots").WillReturnError(&pq.Error{Code: "40P01"})
		mock.ExpectRollback()
	}

	err := RetryTx(context.Background(), dbx, 2, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE slots SET booked = 1")
		return err
	})

	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryTxDoesNotRetryDomainErrors(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	calls := 0
	err := RetryTx(context.Background(), dbx, 3, func(tx *sqlx.Tx) error {
		calls++
		return apperror.NotFound("slot not found")
	})

	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsCheckViolation(&pq.Error{Code: "23514"}))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestExists(t *testing.T) {
	dbx, mock := setupMock(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("T1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := Exists(context.Background(), dbx, "SELECT EXISTS(SELECT 1 FROM terminals WHERE code = $1)", "T1")
	require.NoError(t, err)
	assert.True(t, ok)
}
