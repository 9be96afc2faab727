// internal/recommend/score.go
package recommend

import (
	"strings"

	"baniya/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// budgetFeeLimit: fees below this earn the "budget-friendly" note.
const budgetFeeLimit = 1000

// Score rates every card against the profile, in catalog order.
//
// match_score is the share of total monthly spend that falls into the card's
// best_for categories, as a rounded percentage, so it doesn't depend on how much
// is spent overall. estimated_savings is the annualized reward on the profile
// minus the annual fee, floored at zero.
func Score(profile domain.SpendingProfile, cards []domain.CardOffer) []domain.ScoredRecommendation {
	total := profile.Total()
	out := make([]domain.ScoredRecommendation, 0, len(cards))
	for _, card := range cards {
		out = append(out, scoreCard(profile, total, card))
	}
	return out
}

func scoreCard(profile domain.SpendingProfile, total int64, card domain.CardOffer) domain.ScoredRecommendation {
	var fit int64
	monthly := decimal.Zero
	best := decimal.Zero
	var top []domain.Category

	for _, c := range domain.Categories {
		spend := profile.Amount(c)
		if card.IsBestFor(c) {
			fit += spend
		}
		rate := card.RewardRates[c]
		if spend == 0 || rate <= 0 {
			continue
		}
		contribution := decimal.NewFromInt(spend).Mul(decimal.NewFromFloat(rate)).Div(hundred)
		monthly = monthly.Add(contribution)

		switch contribution.Cmp(best) {
		case 1:
			best = contribution
			top = []domain.Category{c}
		case 0:
			top = append(top, c)
		}
	}

	net := monthly.Mul(monthsInYear).Sub(decimal.NewFromInt(card.AnnualFeeAmount))
	savings := decimal.Max(net, decimal.Zero).Round(2)

	return domain.ScoredRecommendation{
		Card:             card.Clone(),
		MatchScore:       matchScore(fit, total),
		Reason:           reason(card, total, top, net),
		EstimatedSavings: savings.InexactFloat64(),
	}
}

// matchScore rounds 100*fit/total half up using integers only.
func matchScore(fit, total int64) int {
	if total <= 0 {
		return 0
	}
	return int((200*fit + total) / (2 * total))
}

func reason(card domain.CardOffer, total int64, top []domain.Category, net decimal.Decimal) string {
	var parts []string
	switch {
	case total == 0:
		parts = append(parts, "Add your monthly spending to see how this card fits")
	case len(top) == 0:
		parts = append(parts, "No rewards on your current spending, best for "+joinCategories(card.BestFor))
	default:
		parts = append(parts, "Top rewards on "+joinCategories(top))
	}

	switch {
	case card.AnnualFeeAmount == 0:
		parts = append(parts, "No annual fee")
	case card.AnnualFeeAmount < budgetFeeLimit:
		parts = append(parts, "Budget-friendly annual fee")
	}

	if total > 0 && net.IsNegative() {
		parts = append(parts, "Annual fee outweighs rewards at this spend")
	}
	return strings.Join(parts, " • ")
}

func joinCategories(cats []domain.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, " & ")
}
