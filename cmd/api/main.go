// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baniya/internal/app"
	"baniya/internal/config"
	"baniya/internal/handler"
	"baniya/internal/logger"
	"baniya/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer a.Close()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		middleware.RequestID(log),
		middleware.AccessLog(log),
		middleware.Metrics(),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORS.Origins),
	)

	handler.Register(router, handler.Handlers{
		Cards:   handler.NewCardHandler(a.Recommend, log),
		Compare: handler.NewCompareHandler(a.Analyzer, cfg.Receipt.MaxBytes, log),
		Sales:   handler.NewSalesHandler(a.Sales),
		Fund:    handler.NewFundHandler(a.Ledger, log),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("🚀 server started", zap.Int("port", cfg.Server.Port), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	// SIGHUP swaps in a fresh catalog without restarting.
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-hup:
				if _, err := a.Catalog.Reload(); err != nil {
					log.Warn("catalog reload failed, keeping previous", zap.Error(err))
				}
			}
		}
	})

	return g.Wait()
}
