// internal/catalog/catalog.go
package catalog

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"strings"

	"baniya/internal/domain"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed cards.yaml
var defaultCards []byte

//go:embed schema.json
var schemaJSON []byte

var rupees = message.NewPrinter(language.English)

type file struct {
	Cards []domain.CardOffer `yaml:"cards"`
}

// Default returns the embedded catalog source.
func Default() []byte {
	return append([]byte(nil), defaultCards...)
}

// Parse validates raw YAML against the catalog schema and the rules the
// scorer depends on, and returns the cards in file order.
func Parse(data []byte) ([]domain.CardOffer, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Cards))
	cards := make([]domain.CardOffer, 0, len(f.Cards))
	for i, c := range f.Cards {
		if seen[c.ID] {
			return nil, fmt.Errorf("card %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true

		if err := checkCard(c); err != nil {
			return nil, fmt.Errorf("card %q: %w", c.ID, err)
		}
		c.AnnualFee = FormatRupees(c.AnnualFeeAmount)
		if c.RewardRates == nil {
			c.RewardRates = map[domain.Category]float64{}
		}
		cards = append(cards, c.Clone())
	}
	return cards, nil
}

// Version identifies catalog content; equal bytes give equal versions.
func Version(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}

func FormatRupees(amount int64) string {
	return rupees.Sprintf("₹%d", amount)
}

// Every rewarded category must be tagged best_for, otherwise more spend in
// that category would earn more while lowering the fit score.
func checkCard(c domain.CardOffer) error {
	for cat, rate := range c.RewardRates {
		if !cat.Valid() {
			return fmt.Errorf("unknown category %q", cat)
		}
		if rate > 0 && !c.IsBestFor(cat) {
			return fmt.Errorf("category %q is rewarded but not listed in best_for", cat)
		}
	}
	for _, cat := range c.BestFor {
		if !cat.Valid() {
			return fmt.Errorf("unknown best_for category %q", cat)
		}
	}
	return nil
}

func validateSchema(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse catalog yaml: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("catalog is empty")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("catalog schema validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
