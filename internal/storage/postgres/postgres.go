// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"baniya/internal/domain"

	"github.com/shopspring/decimal"
)

// Storage keeps funds in Postgres. It runs on database/sql so the same code
// serves a pgxpool-backed *sql.DB in production and sqlmock in tests.
type Storage struct {
	db *sql.DB
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// sanitizeOwner drops control characters and collapses whitespace.
func sanitizeOwner(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			result = append(result, ' ')
		case unicode.IsPrint(r):
			result = append(result, r)
		}
	}
	return strings.Join(strings.Fields(string(result)), " ")
}

func (s *Storage) GetFund(ctx context.Context, owner string) (*domain.FundSummary, error) {
	var (
		sum   domain.FundSummary
		total decimal.Decimal
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT total_saved, transactions, last_updated
		FROM savings_funds
		WHERE owner = $1
	`, sanitizeOwner(owner)).Scan(&total, &sum.Transactions, &sum.LastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fund: %w", err)
	}
	sum.TotalSaved = total.InexactFloat64()
	return &sum, nil
}

func (s *Storage) AddToFund(ctx context.Context, t domain.FundTransaction) (*domain.FundSummary, error) {
	owner := sanitizeOwner(t.Owner)
	if owner == "" {
		return nil, fmt.Errorf("fund owner cannot be empty")
	}
	amount := decimal.NewFromFloat(t.Amount).Round(2)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fund_transactions (id, owner, amount, created_at)
		VALUES ($1, $2, $3, $4)
	`, t.ID, owner, amount, t.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert fund transaction: %w", err)
	}

	var (
		sum   domain.FundSummary
		total decimal.Decimal
	)
	err = tx.QueryRowContext(ctx, `
		INSERT INTO savings_funds (owner, total_saved, transactions, last_updated)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (owner) DO UPDATE SET
			total_saved  = savings_funds.total_saved + EXCLUDED.total_saved,
			transactions = savings_funds.transactions + 1,
			last_updated = EXCLUDED.last_updated
		RETURNING total_saved, transactions, last_updated
	`, owner, amount, t.CreatedAt).Scan(&total, &sum.Transactions, &sum.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("upsert fund: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	sum.TotalSaved = total.InexactFloat64()
	return &sum, nil
}

func (s *Storage) ListTransactions(ctx context.Context, owner string, limit int) ([]domain.FundTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, amount, created_at
		FROM fund_transactions
		WHERE owner = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`, sanitizeOwner(owner), limit)
	if err != nil {
		return nil, fmt.Errorf("list fund transactions: %w", err)
	}
	defer rows.Close()

	out := []domain.FundTransaction{}
	for rows.Next() {
		var (
			t      domain.FundTransaction
			amount decimal.Decimal
		)
		if err := rows.Scan(&t.ID, &t.Owner, &amount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fund transaction: %w", err)
		}
		t.Amount = amount.InexactFloat64()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fund transactions: %w", err)
	}
	return out, nil
}
