package app

import (
	"context"
	"testing"

	"baniya/internal/config"
	"baniya/internal/domain"
	"baniya/internal/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInProcess(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	a, err := Build(context.Background(), cfg, logger.NewTest(t))
	require.NoError(t, err)
	defer a.Close()

	recs, err := a.Recommend.Recommend(context.Background(),
		domain.SpendingProfile{}.With(domain.Grocery, 5000).With(domain.Dining, 3000))
	require.NoError(t, err)
	assert.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), cfg.Recommend.Limit)

	sum, err := a.Ledger.Add(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, sum.TotalSaved)

	assert.Equal(t, "blinkit", a.Analyzer.Baseline())
	assert.Len(t, a.Sales.Predictions(""), 8)
}

func TestBuildWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Redis.Address = mr.Addr()

	a, err := Build(context.Background(), cfg, logger.NewTest(t))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Recommend.Recommend(context.Background(), domain.SpendingProfile{}.With(domain.Travel, 9000))
	require.NoError(t, err)
	assert.NotEmpty(t, mr.Keys())
}

func TestBuildBadCatalogPath(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Catalog.Path = "/does/not/exist.yaml"

	_, err = Build(context.Background(), cfg, logger.NewNop())
	require.Error(t, err)
	assert.Equal(t, domain.CodeCatalogUnavailable, domain.CodeOf(err))
}
