// internal/catalog/store.go
package catalog

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"baniya/internal/domain"
	"baniya/internal/metrics"

	"go.uber.org/zap"
)

// Snapshot is an immutable view of one catalog load.
type Snapshot struct {
	Cards    []domain.CardOffer
	Version  string
	Source   string
	LoadedAt time.Time
}

// Store serves the active snapshot without locking readers. Reload swaps the
// whole snapshot; loaded cards are never modified in place.
type Store struct {
	path    string
	log     *zap.Logger
	now     func() time.Time
	current atomic.Pointer[Snapshot]
	reload  sync.Mutex
}

// NewStore loads the catalog from path, or the embedded default when path is empty.
func NewStore(path string, log *zap.Logger) (*Store, error) {
	s := &Store{path: path, log: log, now: time.Now}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore serves a fixed card list. Reload rebuilds the same snapshot.
func NewStaticStore(cards []domain.CardOffer) *Store {
	s := &Store{log: zap.NewNop(), now: time.Now}
	copied := make([]domain.CardOffer, len(cards))
	for i, c := range cards {
		copied[i] = c.Clone()
	}
	s.current.Store(&Snapshot{Cards: copied, Version: "static", Source: "static", LoadedAt: s.now()})
	return s
}

func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload re-reads the source. On failure the previous snapshot stays active.
func (s *Store) Reload() (*Snapshot, error) {
	s.reload.Lock()
	defer s.reload.Unlock()

	if prev := s.current.Load(); prev != nil && prev.Source == "static" {
		return prev, nil
	}

	data, source, err := s.read()
	if err == nil {
		var cards []domain.CardOffer
		cards, err = Parse(data)
		if err == nil {
			snap := &Snapshot{Cards: cards, Version: Version(data), Source: source, LoadedAt: s.now()}
			s.current.Store(snap)
			metrics.CatalogReloads.WithLabelValues("ok").Inc()
			metrics.CatalogCards.Set(float64(len(cards)))
			s.log.Info("catalog loaded",
				zap.String("source", source),
				zap.String("version", snap.Version),
				zap.Int("cards", len(cards)))
			return snap, nil
		}
	}

	metrics.CatalogReloads.WithLabelValues("error").Inc()
	s.log.Error("catalog load failed", zap.String("source", source), zap.Error(err))
	return nil, domain.CatalogUnavailable(fmt.Errorf("load catalog from %s: %w", source, err))
}

func (s *Store) read() ([]byte, string, error) {
	if s.path == "" {
		return Default(), "embedded", nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, s.path, fmt.Errorf("read file: %w", err)
	}
	return data, s.path, nil
}
