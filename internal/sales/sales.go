// internal/sales/sales.go
package sales

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"baniya/internal/domain"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed feed.yaml
var defaultFeed []byte

const dateLayout = "2006-01-02"

// namespace keeps prediction ids stable across restarts.
var namespace = uuid.MustParse("5b1d8c7e-3f0a-4c52-9a61-7d2e4b8f0c13")

// Feed is a read-only list of upcoming sale events.
type Feed struct {
	predictions []domain.SalePrediction
}

// Default loads the embedded feed. It panics on a malformed feed, which can
// only happen at build time.
func Default() *Feed {
	f, err := Parse(defaultFeed)
	if err != nil {
		panic(fmt.Sprintf("embedded sales feed: %v", err))
	}
	return f
}

func Parse(data []byte) (*Feed, error) {
	var doc struct {
		Predictions []domain.SalePrediction `yaml:"predictions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode sales feed: %w", err)
	}

	for i := range doc.Predictions {
		p := &doc.Predictions[i]
		if strings.TrimSpace(p.Platform) == "" || strings.TrimSpace(p.EventName) == "" {
			return nil, fmt.Errorf("prediction %d: platform and event_name are required", i)
		}
		start, err := time.Parse(dateLayout, p.StartDate)
		if err != nil {
			return nil, fmt.Errorf("prediction %d: start_date: %w", i, err)
		}
		end, err := time.Parse(dateLayout, p.EndDate)
		if err != nil {
			return nil, fmt.Errorf("prediction %d: end_date: %w", i, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("prediction %d: ends before it starts", i)
		}
		if p.Categories == nil {
			p.Categories = []string{}
		}
		p.ID = uuid.NewSHA1(namespace, []byte(p.Platform+"|"+p.EventName+"|"+p.StartDate)).String()
	}
	return &Feed{predictions: doc.Predictions}, nil
}

// Predictions returns events for platform (case-insensitive), or all of them
// when platform is blank, in feed order.
func (f *Feed) Predictions(platform string) []domain.SalePrediction {
	platform = strings.TrimSpace(platform)
	out := make([]domain.SalePrediction, 0, len(f.predictions))
	for _, p := range f.predictions {
		if platform != "" && !strings.EqualFold(p.Platform, platform) {
			continue
		}
		p.Categories = append([]string(nil), p.Categories...)
		out = append(out, p)
	}
	return out
}

// Platforms lists distinct platforms in first-seen order.
func (f *Feed) Platforms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range f.predictions {
		key := strings.ToLower(p.Platform)
		if !seen[key] {
			seen[key] = true
			out = append(out, p.Platform)
		}
	}
	return out
}
