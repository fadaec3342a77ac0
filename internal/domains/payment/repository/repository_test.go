package repository_test

import (
	"context"
	"kumbam/infras/otel/mocks"
	"kumbam/infras/postgres"
	"kumbam/internal/domains/payment/model"
	"kumbam/internal/domains/payment/repository"
	"kumbam/shared/constant"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const txnID = "TXN0199a1b2c3d47e8f9a0b1c2d3e4f5a6b"

var guardedUpdate = regexp.QuoteMeta("UPDATE payments SET ") + ".*" + regexp.QuoteMeta("payments.status = $")

func newRepo(t *testing.T) (repository.Payment, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestPaymentRepository_Resolve(t *testing.T) {
	t.Run("pending row is moved", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(guardedUpdate).WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.Resolve(context.Background(), txnID, model.StatusFailed, "guest")

		require.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("terminal row is left alone", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(guardedUpdate).WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.Resolve(context.Background(), txnID, model.StatusCompleted, "guest")

		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestPaymentRepository_Confirm(t *testing.T) {
	t.Run("second completed payment for a booking", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(guardedUpdate).WillReturnError(&pq.Error{
			Code:       constant.PqErrorCodeUniqueViolation,
			Constraint: model.ConstraintOneCompleted,
		})

		updated, err := repo.Confirm(context.Background(), txnID, "b1", "guest")

		require.ErrorIs(t, err, repository.ErrAlreadyPaid)
		assert.False(t, updated)
	})

	t.Run("matches both ids", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET ") + ".*" +
			regexp.QuoteMeta("payments.booking_id = $") + ".*" + regexp.QuoteMeta("payments.status = $")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.Confirm(context.Background(), txnID, "b1", "guest")

		require.NoError(t, err)
		assert.True(t, updated)
	})
}

func TestPaymentRepository_GetByTransactionID(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare("SELECT (.+) FROM payments").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "booking_id", "status", "amount"}).
			AddRow(txnID, "b1", "PENDING", int64(25000)))

	payment, err := repo.GetByTransactionID(context.Background(), txnID)

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, payment.Status)
	assert.Equal(t, int64(25000), payment.Amount)
}
