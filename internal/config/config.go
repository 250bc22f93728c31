package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port          int           `envconfig:"PORT" default:"4001"`
	DatabaseURL   string        `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	EncryptionKey string        `envconfig:"ENCRYPTION_KEY" required:"true"`
	CronSecret    string        `envconfig:"CRON_SECRET" required:"true"`
	CORSOrigins   []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	AdminEmail    string        `envconfig:"ADMIN_EMAIL" default:"admin@siammay.es"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:"admin123"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	CycleInterval time.Duration `envconfig:"CYCLE_INTERVAL" default:"1h"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.EncryptionKey) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes, got %d", len(cfg.EncryptionKey))
	}
	if cfg.CycleInterval < time.Minute {
		return nil, fmt.Errorf("CYCLE_INTERVAL must be at least 1m, got %s", cfg.CycleInterval)
	}
	return &cfg, nil
}
