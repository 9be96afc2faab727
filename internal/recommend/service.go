// internal/recommend/service.go
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"baniya/internal/catalog"
	"baniya/internal/domain"
	"baniya/internal/logger"
	"baniya/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type CatalogSource interface {
	Snapshot() *catalog.Snapshot
}

// Policy is the caller-facing cut applied after scoring.
type Policy struct {
	MinScore int
	Limit    int
}

type Service struct {
	catalog CatalogSource
	cache   Cache
	policy  Policy
	log     *zap.Logger
	group   singleflight.Group
}

func NewService(src CatalogSource, cache Cache, policy Policy, log *zap.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{catalog: src, cache: cache, policy: policy, log: log}
}

func (s *Service) Policy() Policy { return s.policy }

// Recommend scores the active catalog against profile and applies the policy.
// Identical concurrent requests share one computation; cache errors only log.
func (s *Service) Recommend(ctx context.Context, profile domain.SpendingProfile) ([]domain.ScoredRecommendation, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	snap := s.catalog.Snapshot()
	if snap == nil {
		return nil, domain.CatalogUnavailable(nil)
	}

	log := logger.FromContext(ctx, s.log)
	key := s.cacheKey(snap.Version, profile)

	if cached, ok := s.fromCache(ctx, log, key); ok {
		metrics.Recommendations.WithLabelValues("hit").Inc()
		return cached, nil
	}

	start := time.Now()
	v, _, shared := s.group.Do(key, func() (interface{}, error) {
		recs := Rank(Score(profile, snap.Cards), s.policy.MinScore, s.policy.Limit)
		if data, err := json.Marshal(recs); err == nil {
			if err := s.cache.Set(ctx, key, data); err != nil {
				log.Warn("recommendation cache write failed", zap.Error(err))
			}
		}
		return recs, nil
	})
	recs := v.([]domain.ScoredRecommendation)
	metrics.Recommendations.WithLabelValues("miss").Inc()

	log.Debug("recommendations computed",
		zap.String("catalog_version", snap.Version),
		zap.Int("cards_scored", len(snap.Cards)),
		zap.Int("returned", len(recs)),
		zap.Bool("shared", shared),
		zap.Duration("duration", time.Since(start)))

	out := make([]domain.ScoredRecommendation, len(recs))
	copy(out, recs)
	return out, nil
}

// Cards lists the active catalog.
func (s *Service) Cards() ([]domain.CardOffer, string, error) {
	snap := s.catalog.Snapshot()
	if snap == nil {
		return nil, "", domain.CatalogUnavailable(nil)
	}
	out := make([]domain.CardOffer, len(snap.Cards))
	for i, c := range snap.Cards {
		out[i] = c.Clone()
	}
	return out, snap.Version, nil
}

func (s *Service) fromCache(ctx context.Context, log *zap.Logger, key string) ([]domain.ScoredRecommendation, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn("recommendation cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var recs []domain.ScoredRecommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		log.Warn("recommendation cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return recs, true
}

func (s *Service) cacheKey(version string, profile domain.SpendingProfile) string {
	return fmt.Sprintf("recommend:%s:%d:%d:%s", version, s.policy.MinScore, s.policy.Limit, profile.Key())
}
