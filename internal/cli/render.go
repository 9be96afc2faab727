// internal/cli/render.go
package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"baniya/internal/compare"
	"baniya/internal/domain"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	boldGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	boldRed    = color.New(color.FgRed, color.Bold).SprintFunc()
)

func success(out io.Writer, msg string) { fmt.Fprintln(out, boldGreen("✔ "+msg)) }
func warn(out io.Writer, msg string)    { fmt.Fprintln(out, boldYellow("! "+msg)) }

// PrintError is used by main for the final error line.
func PrintError(out io.Writer, err error) { fmt.Fprintln(out, boldRed("✘ "+err.Error())) }

func renderTable(data pterm.TableData) string {
	s, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	return s
}

func renderRecommendations(recs []domain.ScoredRecommendation) string {
	data := pterm.TableData{{"#", "Card", "Bank", "Score", "Savings/yr", "Fee", "Why"}}
	for i, r := range recs {
		data = append(data, []string{
			fmt.Sprint(i + 1),
			r.Card.Name,
			r.Card.Bank,
			fmt.Sprint(r.MatchScore),
			fmt.Sprintf("₹%.2f", r.EstimatedSavings),
			r.Card.AnnualFee,
			r.Reason,
		})
	}
	return renderTable(data)
}

func renderComparison(res domain.PriceComparisonResult) string {
	platforms := platformsOf(res)
	header := []string{"Item", "Qty"}
	for _, p := range platforms {
		header = append(header, compare.DisplayName(p))
	}
	header = append(header, "Best", "Savings")

	data := pterm.TableData{header}
	for _, it := range res.Items {
		row := []string{it.Name, it.Quantity}
		for _, p := range platforms {
			if v, ok := it.Prices[p]; ok {
				row = append(row, fmt.Sprintf("₹%.2f", v))
			} else {
				row = append(row, "-")
			}
		}
		best := "none"
		if it.BestPlatform != nil {
			best = compare.DisplayName(*it.BestPlatform)
		}
		row = append(row, best, fmt.Sprintf("₹%.2f", it.Savings))
		data = append(data, row)
	}
	data = append(data, totalsRow(res, len(platforms)))
	return renderTable(data)
}

func totalsRow(res domain.PriceComparisonResult, platforms int) []string {
	row := make([]string, platforms+4)
	row[0] = fmt.Sprintf("Total (%s ₹%.2f → best ₹%.2f)", compare.DisplayName(res.BaselinePlatform), res.BaselineTotal, res.BestTotal)
	row[len(row)-1] = fmt.Sprintf("₹%.2f (%.1f%%)", res.TotalSavings, res.SavingsPercent)
	return row
}

// platformsOf lists platforms seen in the result, baseline first.
func platformsOf(res domain.PriceComparisonResult) []string {
	seen := map[string]bool{res.BaselinePlatform: true}
	out := []string{res.BaselinePlatform}
	var rest []string
	for _, it := range res.Items {
		for p := range it.Prices {
			if !seen[p] {
				seen[p] = true
				rest = append(rest, p)
			}
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func renderSales(preds []domain.SalePrediction) string {
	data := pterm.TableData{{"Platform", "Event", "From", "To", "Discount", "Categories", "Confidence"}}
	for _, p := range preds {
		data = append(data, []string{
			p.Platform, p.EventName, p.StartDate, p.EndDate, p.ExpectedDiscount,
			strings.Join(p.Categories, ", "), p.Confidence,
		})
	}
	return renderTable(data)
}
