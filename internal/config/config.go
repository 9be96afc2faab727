// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	AMQP      AMQPConfig      `mapstructure:"amqp"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Compare   CompareConfig   `mapstructure:"compare"`
	Receipt   ReceiptConfig   `mapstructure:"receipt"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig: empty URL keeps the savings fund in memory.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// RecommendConfig holds the ranking policy: scores <= MinScore are dropped,
// Limit <= 0 returns every match.
type RecommendConfig struct {
	MinScore int `mapstructure:"min_score"`
	Limit    int `mapstructure:"limit"`
}

type CompareConfig struct {
	BaselinePlatform string `mapstructure:"baseline_platform"`
}

type ReceiptConfig struct {
	ExtractorURL string        `mapstructure:"extractor_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBytes     int64         `mapstructure:"max_bytes"`
}

type LedgerConfig struct {
	Owner string `mapstructure:"owner"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// MustLoad reads configuration from CONFIG_FILE (optional), .env and the
// environment, and exits on error.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", cfg.Server.Port)
	}
	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", cfg.Server.Mode)
	}
	if cfg.Recommend.Limit < 0 {
		return fmt.Errorf("recommend.limit must not be negative")
	}
	if cfg.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be positive")
	}
	if cfg.Receipt.Timeout <= 0 {
		return fmt.Errorf("receipt.timeout must be positive")
	}
	if cfg.Receipt.MaxBytes <= 0 {
		return fmt.Errorf("receipt.max_bytes must be positive")
	}
	if strings.TrimSpace(cfg.Compare.BaselinePlatform) == "" {
		return fmt.Errorf("compare.baseline_platform is required")
	}
	if strings.TrimSpace(cfg.Ledger.Owner) == "" {
		return fmt.Errorf("ledger.owner is required")
	}
	if _, err := zapcore.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}
	return nil
}
