package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the simulator host and the
// engine it drives.
type Config struct {
	App    AppConfig    `envPrefix:"APP_"`
	Engine EngineConfig `envPrefix:"ENGINE_"`
	Feed   FeedConfig   `envPrefix:"FEED_"`
}

// AppConfig is process-level configuration.
type AppConfig struct {
	Name     string `env:"NAME" envDefault:"matchbook"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// EngineConfig configures the matching engine.
type EngineConfig struct {
	// CutoffHour is the local hour at which good-for-day orders are swept.
	CutoffHour int `env:"CUTOFF_HOUR" envDefault:"16"`
}

// FeedConfig configures the order-feed replay.
type FeedConfig struct {
	Path           string        `env:"PATH" envDefault:"orders.csv"`
	CandleInterval time.Duration `env:"CANDLE_INTERVAL" envDefault:"1m"`
	// DepthLevels limits how many levels per side the final depth snapshot
	// prints; 0 prints all of them.
	DepthLevels int `env:"DEPTH_LEVELS" envDefault:"10"`
}

// Load reads configuration from the environment (plus a .env file when one
// exists), applies defaults, and validates values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if !isValidLogLevel(cfg.App.LogLevel) {
		return nil, fmt.Errorf("invalid APP_LOG_LEVEL: %q, must be one of: debug, info, warn, error", cfg.App.LogLevel)
	}
	if cfg.Engine.CutoffHour < 0 || cfg.Engine.CutoffHour > 23 {
		return nil, fmt.Errorf("invalid ENGINE_CUTOFF_HOUR: %d, must be in [0, 23]", cfg.Engine.CutoffHour)
	}
	if cfg.Feed.CandleInterval <= 0 {
		return nil, fmt.Errorf("invalid FEED_CANDLE_INTERVAL: %s, must be positive", cfg.Feed.CandleInterval)
	}
	if cfg.Feed.DepthLevels < 0 {
		return nil, fmt.Errorf("invalid FEED_DEPTH_LEVELS: %d, must be >= 0", cfg.Feed.DepthLevels)
	}

	return cfg, nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
