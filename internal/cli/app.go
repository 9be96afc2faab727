// internal/cli/app.go
package cli

import (
	"fmt"
	"io"
	"os"

	"baniya/internal/catalog"
	"baniya/internal/compare"
	"baniya/internal/domain"
	"baniya/internal/recommend"
	"baniya/internal/sales"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewRootCommand builds the bachat command tree writing to out.
func NewRootCommand(version string, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "bachat",
		Short:         "Baniya.ai operator CLI: card recommendations, price comparison, catalog checks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetVersionTemplate(`{{printf "bachat version: %s\n" .Version}}`)
	root.PersistentFlags().String("catalog", "", "Card catalog YAML (default: embedded catalog)")

	root.AddCommand(
		newRecommendCommand(),
		newCompareCommand(),
		newCatalogCommand(),
		newSalesCommand(),
	)
	return root
}

func loadCards(cmd *cobra.Command) ([]domain.CardOffer, string, error) {
	path, _ := cmd.Flags().GetString("catalog")
	data := catalog.Default()
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, "", fmt.Errorf("read catalog: %w", err)
		}
	}
	cards, err := catalog.Parse(data)
	if err != nil {
		return nil, "", err
	}
	return cards, catalog.Version(data), nil
}

func newRecommendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank credit cards for a monthly spending profile",
		Example: "  bachat recommend --grocery 5000 --dining 3000\n" +
			"  bachat recommend --travel 20000 --limit 0",
		RunE: runRecommend,
	}
	for _, c := range domain.Categories {
		cmd.Flags().Int64(string(c), 0, fmt.Sprintf("Monthly %s spend in rupees", c))
	}
	cmd.Flags().Int("min-score", 0, "Drop cards scoring at or below this")
	cmd.Flags().Int("limit", 5, "Maximum cards to show, 0 for all")
	return cmd
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	var profile domain.SpendingProfile
	for _, c := range domain.Categories {
		v, _ := cmd.Flags().GetInt64(string(c))
		profile = profile.With(c, v)
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	minScore, _ := cmd.Flags().GetInt("min-score")
	limit, _ := cmd.Flags().GetInt("limit")

	cards, _, err := loadCards(cmd)
	if err != nil {
		return err
	}

	recs := recommend.Rank(recommend.Score(profile, cards), minScore, limit)
	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		warn(out, "No matching cards. Add spending in more categories.")
		return nil
	}
	fmt.Fprintln(out, renderRecommendations(recs))
	return nil
}

type itemsFile struct {
	Baseline string                       `yaml:"baseline"`
	Items    []domain.PriceComparisonItem `yaml:"items"`
}

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare order items across quick-commerce platforms",
		Example: "  bachat compare --file order.yaml\n" +
			"  bachat compare --file order.yaml --baseline zepto",
		RunE: runCompare,
	}
	cmd.Flags().StringP("file", "f", "", "YAML file with items (required)")
	cmd.Flags().StringP("baseline", "b", "", "Baseline platform (default: file's baseline, else blinkit)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runCompare(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read items: %w", err)
	}
	var f itemsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode items: %w", err)
	}

	baseline, _ := cmd.Flags().GetString("baseline")
	if baseline == "" {
		baseline = f.Baseline
	}
	if baseline == "" {
		baseline = compare.Blinkit
	}

	res, err := compare.Compare(f.Items, baseline)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res.Items) > 0 {
		fmt.Fprintln(out, renderComparison(res))
	}
	success(out, res.Recommendation)
	return nil
}

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Card catalog tools",
	}
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog file against the schema and scoring rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")
			if file != "" {
				if err := cmd.Flags().Set("catalog", file); err != nil {
					return err
				}
			}
			cards, version, err := loadCards(cmd)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), fmt.Sprintf("catalog OK: %d cards, version %s", len(cards), version))
			return nil
		},
	}
	validate.Flags().StringP("file", "f", "", "Catalog YAML to validate (default: embedded catalog)")
	cmd.AddCommand(validate)
	return cmd
}

func newSalesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "List upcoming sale events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			platform, _ := cmd.Flags().GetString("platform")
			preds := sales.Default().Predictions(platform)
			out := cmd.OutOrStdout()
			if len(preds) == 0 {
				warn(out, fmt.Sprintf("No upcoming sales for %q", platform))
				return nil
			}
			fmt.Fprintln(out, renderSales(preds))
			return nil
		},
	}
	cmd.Flags().StringP("platform", "p", "", "Only this platform")
	return cmd
}
