// cmd/migrate/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"baniya/internal/app"
	"baniya/internal/config"
	"baniya/internal/logger"
	"baniya/migrations"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down, status, version")
	flag.Parse()

	cfg := config.MustLoad()
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, closeDB, err := app.OpenDB(context.Background(), cfg.Database.URL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer closeDB()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("set dialect", zap.Error(err))
	}

	log.Info("running migrations", zap.String("command", *command))
	if err := goose.RunContext(context.Background(), *command, db, "."); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}
	log.Info("✅ migrations applied", zap.String("command", *command))
}
