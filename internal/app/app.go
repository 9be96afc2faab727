// internal/app/app.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"baniya/internal/catalog"
	"baniya/internal/compare"
	"baniya/internal/config"
	"baniya/internal/events"
	"baniya/internal/ledger"
	"baniya/internal/receipt"
	"baniya/internal/recommend"
	"baniya/internal/sales"
	"baniya/internal/storage"
	"baniya/internal/storage/memory"
	"baniya/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// App holds the services shared by the API server and the bot.
type App struct {
	Catalog   *catalog.Store
	Recommend *recommend.Service
	Analyzer  *compare.Analyzer
	Ledger    *ledger.Service
	Sales     *sales.Feed

	closers []func() error
	log     *zap.Logger
}

// Build wires every service from cfg. Optional backends (Postgres, Redis,
// AMQP, receipt extractor) fall back to in-process versions when unset.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{log: log, Sales: sales.Default()}

	store, err := catalog.NewStore(cfg.Catalog.Path, log.Named("catalog"))
	if err != nil {
		return nil, err
	}
	a.Catalog = store

	cache := a.cache(ctx, cfg)
	a.Recommend = recommend.NewService(store, cache, recommend.Policy{
		MinScore: cfg.Recommend.MinScore,
		Limit:    cfg.Recommend.Limit,
	}, log.Named("recommend"))

	var extractor receipt.Extractor = receipt.Unavailable{}
	if cfg.Receipt.ExtractorURL != "" {
		extractor = receipt.NewHTTPExtractor(cfg.Receipt.ExtractorURL, cfg.Receipt.Timeout, log.Named("receipt"))
	} else {
		log.Warn("receipt extractor not configured, /qcommerce/analyze will fail")
	}
	a.Analyzer = compare.NewAnalyzer(extractor, cfg.Compare.BaselinePlatform, log.Named("compare"))

	funds, err := a.fundStorage(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Ledger = ledger.NewService(funds, cfg.Ledger.Owner, log.Named("ledger"),
		ledger.WithPublisher(a.publisher(cfg)))

	return a, nil
}

func (a *App) cache(ctx context.Context, cfg *config.Config) recommend.Cache {
	if cfg.Redis.Address == "" {
		return recommend.NopCache{}
	}
	client := recommend.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	a.closers = append(a.closers, client.Close)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// requests still succeed without the cache
		a.log.Warn("redis unreachable, continuing", zap.String("address", cfg.Redis.Address), zap.Error(err))
	} else {
		a.log.Info("redis cache enabled", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", cfg.Redis.TTL))
	}
	return recommend.NewRedisCache(client, cfg.Redis.TTL)
}

func (a *App) fundStorage(ctx context.Context, cfg *config.Config) (storage.FundStorage, error) {
	if cfg.Database.URL == "" {
		a.log.Warn("database url not set, savings fund is kept in memory")
		return memory.NewStorage(), nil
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	a.closers = append(a.closers, db.Close, func() error { pool.Close(); return nil })
	a.log.Info("postgres storage enabled")
	return postgres.NewStorage(db), nil
}

func (a *App) publisher(cfg *config.Config) events.Publisher {
	if cfg.AMQP.URL == "" {
		return events.NoopPublisher{}
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, a.log.Named("events"))
	if err != nil {
		a.log.Warn("AMQP unavailable, fund events disabled", zap.Error(err))
		return events.NoopPublisher{}
	}
	a.closers = append(a.closers, pub.Close)
	a.log.Info("fund events enabled", zap.String("exchange", cfg.AMQP.Exchange))
	return pub
}

// OpenDB returns a *sql.DB over a pgx pool, for migrations.
func OpenDB(ctx context.Context, url string) (*sql.DB, func(), error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	return db, func() { db.Close(); pool.Close() }, nil
}

// Close releases backends in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
