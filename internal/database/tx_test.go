package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const touchQuery = "UPDATE kv_slots SET updated_at = NOW()"

func touch(ctx context.Context) func(*sql.Tx) error {
	return func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, touchQuery)
		return err
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err = WithTransaction(context.Background(), db, DefaultTxOptions(), func(*sql.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithRetryRecoversFromSerializationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, WithRetry(ctx, db, DefaultTxOptions(), touch(ctx)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err = WithRetry(ctx, db, DefaultTxOptions(), touch(ctx))
	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("23505"), pqErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithRetryGivesUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	opts := DefaultTxOptions()
	opts.MaxRetries = 1
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(touchQuery)).WillReturnError(&pq.Error{Code: "40P01"})
		mock.ExpectRollback()
	}

	err = WithRetry(ctx, db, opts, touch(ctx))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries (1) exceeded")
	assert.True(t, IsRetryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithRetryHonoursCancelledContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = WithRetry(ctx, db, DefaultTxOptions(), touch(ctx))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
