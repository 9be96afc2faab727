package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"baniya/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStorage(db), mock
}

func TestGetFund(t *testing.T) {
	store, mock := newMock(t)
	updated := time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT total_saved, transactions, last_updated\s+FROM savings_funds`).
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"total_saved", "transactions", "last_updated"}).
			AddRow("1250.75", int64(4), updated))

	sum, err := store.GetFund(context.Background(), "demo")
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 1250.75, sum.TotalSaved)
	assert.Equal(t, int64(4), sum.Transactions)
	assert.Equal(t, updated, sum.LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFundMissing(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(`FROM savings_funds`).
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"total_saved", "transactions", "last_updated"}))

	sum, err := store.GetFund(context.Background(), "demo")
	require.NoError(t, err)
	assert.Nil(t, sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFundError(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(`FROM savings_funds`).WillReturnError(errors.New("connection reset"))

	_, err := store.GetFund(context.Background(), "demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get fund")
}

func TestAddToFund(t *testing.T) {
	store, mock := newMock(t)
	now := time.Date(2025, 2, 12, 18, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO fund_transactions`).
		WithArgs("7b0c3c8e-1111-4a4a-9a9a-000000000001", "demo", "72.5", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO savings_funds .* ON CONFLICT \(owner\) DO UPDATE SET`).
		WithArgs("demo", "72.5", now).
		WillReturnRows(sqlmock.NewRows([]string{"total_saved", "transactions", "last_updated"}).
			AddRow("1323.25", int64(5), now))
	mock.ExpectCommit()

	sum, err := store.AddToFund(context.Background(), domain.FundTransaction{
		ID:        "7b0c3c8e-1111-4a4a-9a9a-000000000001",
		Owner:     " demo\t",
		Amount:    72.5,
		CreatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, 1323.25, sum.TotalSaved)
	assert.Equal(t, int64(5), sum.Transactions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToFundRollsBack(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO fund_transactions`).
		WithArgs(sqlmock.AnyArg(), "demo", "10", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO savings_funds`).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := store.AddToFund(context.Background(), domain.FundTransaction{ID: "x", Owner: "demo", Amount: 10, CreatedAt: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert fund")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToFundEmptyOwner(t *testing.T) {
	store, mock := newMock(t)

	_, err := store.AddToFund(context.Background(), domain.FundTransaction{Owner: "\u200b "})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactions(t *testing.T) {
	store, mock := newMock(t)
	t1 := time.Date(2025, 2, 12, 18, 0, 0, 0, time.UTC)
	t2 := t1.Add(-time.Hour)

	mock.ExpectQuery(`SELECT id, owner, amount, created_at\s+FROM fund_transactions`).
		WithArgs("demo", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner", "amount", "created_at"}).
			AddRow("b", "demo", "72.50", t1).
			AddRow("a", "demo", "2", t2))

	got, err := store.ListTransactions(context.Background(), "demo", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, 72.5, got[0].Amount)
	assert.Equal(t, 2.0, got[1].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSanitizeOwner(t *testing.T) {
	assert.Equal(t, "demo user", sanitizeOwner("  demo \n user "))
	assert.Equal(t, "", sanitizeOwner("\x00\x07"))
}
