// internal/storage/storage.go
package storage

import (
	"context"

	"baniya/internal/domain"
)

// FundStorage persists savings funds. GetFund returns nil, nil when the owner
// has no fund yet. AddToFund must apply the transaction and the running total
// atomically.
type FundStorage interface {
	GetFund(ctx context.Context, owner string) (*domain.FundSummary, error)
	AddToFund(ctx context.Context, tx domain.FundTransaction) (*domain.FundSummary, error)
	ListTransactions(ctx context.Context, owner string, limit int) ([]domain.FundTransaction, error)
}
