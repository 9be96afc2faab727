// internal/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// legacyEnv keeps the variable names the deployment already uses.
var legacyEnv = map[string][]string{
	"server.port":    {"SERVER_PORT", "PORT"},
	"database.url":   {"DATABASE_URL", "DB_CONN"},
	"telegram.token": {"TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"},
}

// Load builds the configuration. path may point to a YAML file; empty means
// defaults plus environment only.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	applyDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	normalize(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 10000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.url", "")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "baniya.events")
	v.SetDefault("catalog.path", "")
	v.SetDefault("recommend.min_score", 0)
	v.SetDefault("recommend.limit", 5)
	v.SetDefault("compare.baseline_platform", "blinkit")
	v.SetDefault("receipt.extractor_url", "")
	v.SetDefault("receipt.timeout", "15s")
	v.SetDefault("receipt.max_bytes", 10<<20)
	v.SetDefault("ledger.owner", "demo")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("cors.origins", []string{"*"})
}

func normalize(cfg *Config) {
	cfg.Compare.BaselinePlatform = strings.ToLower(strings.TrimSpace(cfg.Compare.BaselinePlatform))
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	origins := cfg.CORS.Origins[:0]
	for _, o := range cfg.CORS.Origins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cfg.CORS.Origins = origins
}

// .env is optional; the process environment always wins.
func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}
