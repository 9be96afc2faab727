// internal/recommend/rank.go
package recommend

import (
	"sort"

	"baniya/internal/domain"
)

// Rankings orders recommendations by match score, then estimated savings,
// both descending, then card id ascending.
type Rankings []domain.ScoredRecommendation

func (r Rankings) Len() int { return len(r) }

func (r Rankings) Less(i, j int) bool {
	if r[i].MatchScore != r[j].MatchScore {
		return r[i].MatchScore > r[j].MatchScore
	}
	if r[i].EstimatedSavings != r[j].EstimatedSavings {
		return r[i].EstimatedSavings > r[j].EstimatedSavings
	}
	return r[i].Card.ID < r[j].Card.ID
}

func (r Rankings) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

// Rank drops entries scoring at or below minScore, sorts the rest and keeps
// the first limit. limit <= 0 keeps everything. The input is not modified.
func Rank(scored []domain.ScoredRecommendation, minScore, limit int) []domain.ScoredRecommendation {
	out := make(Rankings, 0, len(scored))
	for _, r := range scored {
		if r.MatchScore > minScore {
			out = append(out, r)
		}
	}
	sort.Stable(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return []domain.ScoredRecommendation(out)
}
