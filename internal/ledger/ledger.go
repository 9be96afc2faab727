// internal/ledger/ledger.go
package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"baniya/internal/domain"
	"baniya/internal/events"
	"baniya/internal/logger"
	"baniya/internal/metrics"
	"baniya/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxAddition caps a single deposit.
const MaxAddition = 10_000_000

// Service is the savings fund. It has no rules beyond "amounts are never
// negative"; ordering and atomicity come from the storage.
type Service struct {
	store  storage.FundStorage
	events events.Publisher
	owner  string
	now    func() time.Time
	log    *zap.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func NewService(store storage.FundStorage, owner string, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		events: events.NoopPublisher{},
		owner:  owner,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the fund, or an empty one stamped with the current time.
func (s *Service) Get(ctx context.Context) (domain.FundSummary, error) {
	sum, err := s.store.GetFund(ctx, s.owner)
	if err != nil {
		return domain.FundSummary{}, fmt.Errorf("get fund: %w", err)
	}
	if sum == nil {
		return domain.FundSummary{LastUpdated: s.now().UTC()}, nil
	}
	return *sum, nil
}

// Add deposits amount, rounded to paise, and returns the new totals.
func (s *Service) Add(ctx context.Context, amount float64) (domain.FundSummary, error) {
	if err := validateAmount(amount); err != nil {
		return domain.FundSummary{}, err
	}

	tx := domain.FundTransaction{
		ID:        uuid.NewString(),
		Owner:     s.owner,
		Amount:    decimal.NewFromFloat(amount).Round(2).InexactFloat64(),
		CreatedAt: s.now().UTC(),
	}
	sum, err := s.store.AddToFund(ctx, tx)
	if err != nil {
		return domain.FundSummary{}, fmt.Errorf("add to fund: %w", err)
	}
	metrics.FundAdditions.Inc()

	log := logger.FromContext(ctx, s.log)
	log.Info("fund updated",
		zap.String("transaction_id", tx.ID),
		zap.Float64("amount", tx.Amount),
		zap.Float64("total_saved", sum.TotalSaved),
		zap.Int64("transactions", sum.Transactions))

	// The deposit is committed; a lost event must not fail it.
	if err := s.events.PublishFundAdded(ctx, events.FundAdded{
		TransactionID: tx.ID,
		Owner:         tx.Owner,
		Amount:        tx.Amount,
		TotalSaved:    sum.TotalSaved,
		Transactions:  sum.Transactions,
		OccurredAt:    tx.CreatedAt,
	}); err != nil {
		log.Warn("fund event not published", zap.String("transaction_id", tx.ID), zap.Error(err))
	}
	return *sum, nil
}

// Transactions lists the latest deposits, newest first.
func (s *Service) Transactions(ctx context.Context, limit int) ([]domain.FundTransaction, error) {
	if limit <= 0 || limit > 100 {
		return nil, domain.Invalid("limit", "must be between 1 and 100")
	}
	txs, err := s.store.ListTransactions(ctx, s.owner, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func validateAmount(amount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		return &domain.Error{Code: domain.CodeInvalidInput, Field: "amount", Message: domain.ErrNonNumeric.Error(), Err: domain.ErrNonNumeric}
	case amount < 0:
		return &domain.Error{Code: domain.CodeInvalidInput, Field: "amount", Message: domain.ErrNegativeAmount.Error(), Err: domain.ErrNegativeAmount}
	case amount > MaxAddition:
		return &domain.Error{Code: domain.CodeInvalidInput, Field: "amount", Message: domain.ErrAmountTooLarge.Error(), Err: domain.ErrAmountTooLarge}
	}
	return nil
}
