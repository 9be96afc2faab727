// internal/compare/compare.go
package compare

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"baniya/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	emptyMessage    = "No items to compare yet. Upload an order screenshot to start saving."
	unpricedMessage = "None of these items had a price on any platform."
	// alertPercent: savings above this share of the baseline get the alert template.
	alertPercent = 10
)

var hundred = decimal.NewFromInt(100)

// NormalizePlatform is the canonical platform key.
func NormalizePlatform(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Compare finds the cheapest platform per item and totals savings against
// baseline. Items nobody prices are flagged and left out of both totals; items
// without a baseline price are left out of the baseline total only.
func Compare(items []domain.PriceComparisonItem, baseline string) (domain.PriceComparisonResult, error) {
	baseline = NormalizePlatform(baseline)
	if baseline == "" {
		return domain.PriceComparisonResult{}, domain.Invalid("baseline_platform", "must not be blank")
	}

	res := domain.PriceComparisonResult{
		Items:                make([]domain.ItemComparison, 0, len(items)),
		BaselinePlatform:     baseline,
		UnpricedItems:        []string{},
		MissingBaselineItems: []string{},
	}
	baselineTotal := decimal.Zero
	bestTotal := decimal.Zero
	wins := make(map[string]int)

	for i, item := range items {
		prices, err := normalizePrices(i, item)
		if err != nil {
			return domain.PriceComparisonResult{}, err
		}
		ic := domain.ItemComparison{
			Name:     strings.TrimSpace(item.Name),
			Quantity: item.Quantity,
			Prices:   make(map[string]float64, len(prices)),
		}
		for p, v := range prices {
			ic.Prices[p] = v.InexactFloat64()
		}

		bestPlatform, bestPrice, ok := cheapest(prices)
		if !ok {
			ic.NoPrice = true
			res.UnpricedItems = append(res.UnpricedItems, ic.Name)
			res.Items = append(res.Items, ic)
			continue
		}
		ic.BestPlatform = &bestPlatform
		bp := bestPrice.InexactFloat64()
		ic.BestPrice = &bp
		bestTotal = bestTotal.Add(bestPrice)
		wins[bestPlatform]++

		if base, has := prices[baseline]; has {
			b := base.InexactFloat64()
			ic.BaselinePrice = &b
			ic.Savings = base.Sub(bestPrice).Round(2).InexactFloat64()
			baselineTotal = baselineTotal.Add(base)
		} else {
			ic.NoBaselinePrice = true
			res.MissingBaselineItems = append(res.MissingBaselineItems, ic.Name)
		}
		res.Items = append(res.Items, ic)
	}

	savings := decimal.Max(baselineTotal.Sub(bestTotal), decimal.Zero).Round(2)
	percent := decimal.Zero
	if baselineTotal.IsPositive() {
		percent = savings.Mul(hundred).Div(baselineTotal).Round(1)
	}

	res.BaselineTotal = baselineTotal.Round(2).InexactFloat64()
	res.BestTotal = bestTotal.Round(2).InexactFloat64()
	res.TotalSavings = savings.InexactFloat64()
	res.SavingsPercent = percent.InexactFloat64()
	res.WinningPlatform = mode(wins)
	res.Recommendation = recommendation(len(items), res, savings, percent)
	return res, nil
}

func normalizePrices(i int, item domain.PriceComparisonItem) (map[string]decimal.Decimal, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, domain.Invalid(fmt.Sprintf("items[%d].name", i), "must not be blank")
	}
	out := make(map[string]decimal.Decimal, len(item.Prices))
	for platform, price := range item.Prices {
		key := NormalizePlatform(platform)
		field := fmt.Sprintf("items[%d].prices.%s", i, platform)
		switch {
		case key == "":
			return nil, domain.Invalid(fmt.Sprintf("items[%d].prices", i), "platform name must not be blank")
		case math.IsNaN(price) || math.IsInf(price, 0):
			return nil, domain.Invalid(field, "price must be a finite number")
		case price < 0:
			return nil, domain.Invalid(field, "price must not be negative")
		}
		if _, dup := out[key]; dup {
			return nil, domain.Invalid(field, "platform listed more than once")
		}
		out[key] = decimal.NewFromFloat(price)
	}
	return out, nil
}

// cheapest breaks price ties by platform name.
func cheapest(prices map[string]decimal.Decimal) (string, decimal.Decimal, bool) {
	platforms := make([]string, 0, len(prices))
	for p := range prices {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	var best string
	var bestPrice decimal.Decimal
	for i, p := range platforms {
		if i == 0 || prices[p].LessThan(bestPrice) {
			best, bestPrice = p, prices[p]
		}
	}
	return best, bestPrice, len(platforms) > 0
}

// mode returns the platform with the most wins, lexically first on ties.
func mode(wins map[string]int) string {
	var winner string
	for p, n := range wins {
		if n > wins[winner] || (n == wins[winner] && p < winner) {
			winner = p
		}
	}
	return winner
}

func recommendation(count int, res domain.PriceComparisonResult, savings, percent decimal.Decimal) string {
	var msg string
	switch {
	case count == 0:
		return emptyMessage
	case res.WinningPlatform == "":
		return unpricedMessage
	case !savings.IsPositive():
		msg = fmt.Sprintf("You're already getting the best prices on %s!", DisplayName(res.BaselinePlatform))
	case percent.GreaterThan(decimal.NewFromInt(alertPercent)):
		msg = fmt.Sprintf("🎯 Bachat Alert! Save %s%% (₹%s) by smart shopping!", percent.StringFixed(1), savings.String())
	default:
		msg = fmt.Sprintf("Switch to %s to save ₹%s!", DisplayName(res.WinningPlatform), savings.String())
	}

	switch n := len(res.UnpricedItems); n {
	case 0:
	case 1:
		msg += " 1 item had no price on any platform."
	default:
		msg += fmt.Sprintf(" %d items had no price on any platform.", n)
	}
	return msg
}

// DisplayName renders a platform key for people: "instamart" -> "Instamart".
func DisplayName(platform string) string {
	// Casers keep state, so one per call.
	return cases.Title(language.English).String(platform)
}
