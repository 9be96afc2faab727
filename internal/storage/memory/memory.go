// internal/storage/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"baniya/internal/domain"

	"github.com/shopspring/decimal"
)

type fund struct {
	total        decimal.Decimal
	summary      domain.FundSummary
	transactions []domain.FundTransaction
}

// Storage keeps funds in process memory. A single mutex serializes writers
// so total and count always move together.
type Storage struct {
	mu    sync.Mutex
	funds map[string]*fund
}

func NewStorage() *Storage {
	return &Storage{funds: make(map[string]*fund)}
}

func (s *Storage) GetFund(_ context.Context, owner string) (*domain.FundSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.funds[owner]
	if !ok {
		return nil, nil
	}
	sum := f.summary
	return &sum, nil
}

func (s *Storage) AddToFund(_ context.Context, t domain.FundTransaction) (*domain.FundSummary, error) {
	if t.Owner == "" {
		return nil, fmt.Errorf("fund owner cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.funds[t.Owner]
	if !ok {
		f = &fund{}
		s.funds[t.Owner] = f
	}
	f.total = f.total.Add(decimal.NewFromFloat(t.Amount).Round(2))
	f.summary = domain.FundSummary{
		TotalSaved:   f.total.InexactFloat64(),
		Transactions: f.summary.Transactions + 1,
		LastUpdated:  t.CreatedAt,
	}
	f.transactions = append(f.transactions, t)

	sum := f.summary
	return &sum, nil
}

func (s *Storage) ListTransactions(_ context.Context, owner string, limit int) ([]domain.FundTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.FundTransaction{}
	if f, ok := s.funds[owner]; ok {
		out = append(out, f.transactions...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
