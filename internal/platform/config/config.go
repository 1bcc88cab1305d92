package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageBolt     = "bolt"
	StoragePostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	LogLevel      slog.Level
	StorageDriver string
	DatabaseURL   string
	EnableDBCheck bool
	BoltPath      string

	ChartOfAccountsPath string
	FrontendBaseURL     string
	RateLimit           string // ulule formatted rate, e.g. "100-M"; empty disables
	SeedDemoData        bool
	DemoEntities        []string

	IntegrityCheckSchedule string // Six-field cron spec; empty disables
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("BOLT_PATH", "ledger.db")
	v.SetDefault("CHART_OF_ACCOUNTS_PATH", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("DEMO_ENTITIES", "awakenings,harbor-house,northside-food-bank")
	v.SetDefault("INTEGRITY_CHECK_SCHEDULE", "0 0 2 * * *")

	// Actual environment variables override .env values and defaults. Empty
	// values count, so INTEGRITY_CHECK_SCHEDULE= turns the job off.
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	cfg := &Config{
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		StorageDriver:          strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DatabaseURL:            v.GetString("PGSQL_URL"),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		BoltPath:               v.GetString("BOLT_PATH"),
		ChartOfAccountsPath:    v.GetString("CHART_OF_ACCOUNTS_PATH"),
		FrontendBaseURL:        v.GetString("FRONTEND_BASE_URL"),
		RateLimit:              strings.TrimSpace(v.GetString("RATE_LIMIT")),
		SeedDemoData:           v.GetBool("SEED_DEMO_DATA"),
		DemoEntities:           splitList(v.GetString("DEMO_ENTITIES")),
		IntegrityCheckSchedule: strings.TrimSpace(v.GetString("INTEGRITY_CHECK_SCHEDULE")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT environment variable not set, using default", slog.String("port", cfg.Port))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v.GetString("LOG_LEVEL"), err)
	}

	switch cfg.StorageDriver {
	case StorageMemory:
	case StorageBolt:
		if cfg.BoltPath == "" {
			return nil, fmt.Errorf("BOLT_PATH is required when STORAGE_DRIVER=%s", StorageBolt)
		}
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want %s, %s or %s)", cfg.StorageDriver, StorageMemory, StorageBolt, StoragePostgres)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
