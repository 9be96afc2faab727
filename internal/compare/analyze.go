// internal/compare/analyze.go
package compare

import (
	"context"
	"time"

	"baniya/internal/domain"
	"baniya/internal/logger"
	"baniya/internal/metrics"
	"baniya/internal/receipt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Platforms with their own column in the analyze response.
const (
	Blinkit   = "blinkit"
	Instamart = "instamart"
	Zepto     = "zepto"
)

type AnalyzeItem struct {
	Name             string   `json:"name"`
	Quantity         string   `json:"quantity"`
	BlinkitPrice     *float64 `json:"blinkit_price"`
	InstamartPrice   *float64 `json:"instamart_price"`
	ZeptoPrice       *float64 `json:"zepto_price"`
	BestPlatform     *string  `json:"best_platform"`
	PotentialSavings float64  `json:"potential_savings"`
}

type AnalyzeResponse struct {
	Items            []AnalyzeItem `json:"items"`
	TotalBlinkit     float64       `json:"total_blinkit"`
	TotalSavings     float64       `json:"total_savings"`
	BestTotal        float64       `json:"best_total"`
	BaselinePlatform string        `json:"baseline_platform"`
	BaselineTotal    float64       `json:"baseline_total"`
	SavingsPercent   float64       `json:"savings_percent"`
	Recommendation   string        `json:"recommendation"`
	UnpricedItems    []string      `json:"unpriced_items"`
}

// AnalyzeView shapes a comparison into the per-platform column layout.
func AnalyzeView(res domain.PriceComparisonResult) AnalyzeResponse {
	out := AnalyzeResponse{
		Items:            make([]AnalyzeItem, 0, len(res.Items)),
		TotalSavings:     res.TotalSavings,
		BestTotal:        res.BestTotal,
		BaselinePlatform: res.BaselinePlatform,
		BaselineTotal:    res.BaselineTotal,
		SavingsPercent:   res.SavingsPercent,
		Recommendation:   res.Recommendation,
		UnpricedItems:    res.UnpricedItems,
	}
	blinkit := decimal.Zero
	for _, it := range res.Items {
		out.Items = append(out.Items, AnalyzeItem{
			Name:             it.Name,
			Quantity:         it.Quantity,
			BlinkitPrice:     priceOn(it, Blinkit),
			InstamartPrice:   priceOn(it, Instamart),
			ZeptoPrice:       priceOn(it, Zepto),
			BestPlatform:     it.BestPlatform,
			PotentialSavings: it.Savings,
		})
		if p, ok := it.Prices[Blinkit]; ok && !it.NoPrice {
			blinkit = blinkit.Add(decimal.NewFromFloat(p))
		}
	}
	out.TotalBlinkit = blinkit.Round(2).InexactFloat64()
	return out
}

func priceOn(it domain.ItemComparison, platform string) *float64 {
	p, ok := it.Prices[platform]
	if !ok {
		return nil
	}
	return &p
}

// Analyzer runs an uploaded screenshot through extraction and comparison.
type Analyzer struct {
	extractor receipt.Extractor
	baseline  string
	log       *zap.Logger
}

func NewAnalyzer(extractor receipt.Extractor, baseline string, log *zap.Logger) *Analyzer {
	return &Analyzer{extractor: extractor, baseline: NormalizePlatform(baseline), log: log}
}

func (a *Analyzer) Baseline() string { return a.baseline }

// CompareItems compares already-extracted items. Empty baseline uses the default.
func (a *Analyzer) CompareItems(ctx context.Context, items []domain.PriceComparisonItem, baseline string) (domain.PriceComparisonResult, error) {
	if NormalizePlatform(baseline) == "" {
		baseline = a.baseline
	}
	start := time.Now()
	res, err := Compare(items, baseline)
	if err != nil {
		return domain.PriceComparisonResult{}, err
	}

	metrics.Comparisons.Inc()
	metrics.ComparisonFlaggedItems.WithLabelValues("no_price").Add(float64(len(res.UnpricedItems)))
	metrics.ComparisonFlaggedItems.WithLabelValues("no_baseline_price").Add(float64(len(res.MissingBaselineItems)))

	logger.FromContext(ctx, a.log).Info("comparison computed",
		zap.Int("items", len(items)),
		zap.Int("unpriced", len(res.UnpricedItems)),
		zap.Int("missing_baseline", len(res.MissingBaselineItems)),
		zap.Float64("total_savings", res.TotalSavings),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}

// Analyze sniffs the upload, extracts its items and compares them.
func (a *Analyzer) Analyze(ctx context.Context, upload receipt.Upload) (AnalyzeResponse, error) {
	mt, err := receipt.SniffImage(upload.Data)
	if err != nil {
		return AnalyzeResponse{}, err
	}
	upload.ContentType = mt

	items, err := a.extractor.Extract(ctx, upload)
	if err != nil {
		return AnalyzeResponse{}, err
	}
	res, err := a.CompareItems(ctx, items, "")
	if err != nil {
		// the extractor handed back something unusable
		return AnalyzeResponse{}, domain.Upstream("receipt extraction returned invalid items", err)
	}
	return AnalyzeView(res), nil
}
