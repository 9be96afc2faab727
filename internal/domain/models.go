// internal/domain/models.go
package domain

import "time"

// CardOffer is a credit card from the reference catalog. Loaded once, never mutated.
type CardOffer struct {
	ID              string               `json:"id" yaml:"id"`
	Name            string               `json:"name" yaml:"name"`
	Bank            string               `json:"bank" yaml:"bank"`
	CashbackRate    string               `json:"cashback_rate" yaml:"cashback_rate"`
	AnnualFee       string               `json:"annual_fee" yaml:"-"`
	AnnualFeeAmount int64                `json:"annual_fee_amount" yaml:"annual_fee"`
	RewardRates     map[Category]float64 `json:"reward_rates" yaml:"reward_rates"`
	BestFor         []Category           `json:"best_for" yaml:"best_for"`
	Features        []string             `json:"features" yaml:"features"`
	RewardType      string               `json:"reward_type" yaml:"reward_type"`
}

// Clone returns a deep copy so callers can't reach the catalog's maps and slices.
func (c CardOffer) Clone() CardOffer {
	out := c
	if c.RewardRates != nil {
		out.RewardRates = make(map[Category]float64, len(c.RewardRates))
		for k, v := range c.RewardRates {
			out.RewardRates[k] = v
		}
	}
	out.BestFor = append([]Category(nil), c.BestFor...)
	out.Features = append([]string(nil), c.Features...)
	return out
}

// IsBestFor reports whether the card is tagged for the category.
func (c CardOffer) IsBestFor(cat Category) bool {
	for _, b := range c.BestFor {
		if b == cat {
			return true
		}
	}
	return false
}

type ScoredRecommendation struct {
	Card             CardOffer `json:"card"`
	MatchScore       int       `json:"match_score"`
	Reason           string    `json:"reason"`
	EstimatedSavings float64   `json:"estimated_savings"`
}

// PriceComparisonItem is one parsed order line with its price on each platform.
// A platform missing from Prices doesn't carry the item.
type PriceComparisonItem struct {
	Name     string             `json:"name" yaml:"name"`
	Quantity string             `json:"quantity" yaml:"quantity"`
	Prices   map[string]float64 `json:"prices" yaml:"prices"`
}

type ItemComparison struct {
	Name            string             `json:"name"`
	Quantity        string             `json:"quantity"`
	Prices          map[string]float64 `json:"prices"`
	BestPlatform    *string            `json:"best_platform"`
	BestPrice       *float64           `json:"best_price"`
	BaselinePrice   *float64           `json:"baseline_price"`
	Savings         float64            `json:"savings"`
	NoPrice         bool               `json:"no_price,omitempty"`
	NoBaselinePrice bool               `json:"no_baseline_price,omitempty"`
}

type PriceComparisonResult struct {
	Items                []ItemComparison `json:"items"`
	BaselinePlatform     string           `json:"baseline_platform"`
	BaselineTotal        float64          `json:"baseline_total"`
	BestTotal            float64          `json:"best_total"`
	TotalSavings         float64          `json:"total_savings"`
	SavingsPercent       float64          `json:"savings_percent"`
	WinningPlatform      string           `json:"winning_platform,omitempty"`
	Recommendation       string           `json:"recommendation"`
	UnpricedItems        []string         `json:"unpriced_items"`
	MissingBaselineItems []string         `json:"missing_baseline_items"`
}

type SalePrediction struct {
	ID               string   `json:"id" yaml:"-"`
	Platform         string   `json:"platform" yaml:"platform"`
	EventName        string   `json:"event_name" yaml:"event_name"`
	StartDate        string   `json:"start_date" yaml:"start_date"`
	EndDate          string   `json:"end_date" yaml:"end_date"`
	ExpectedDiscount string   `json:"expected_discount" yaml:"expected_discount"`
	Categories       []string `json:"categories" yaml:"categories"`
	Confidence       string   `json:"confidence" yaml:"confidence"`
}

// FundSummary is the running state of a savings fund.
type FundSummary struct {
	TotalSaved   float64   `json:"total_saved"`
	Transactions int64     `json:"transactions"`
	LastUpdated  time.Time `json:"last_updated"`
}

type FundTransaction struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
