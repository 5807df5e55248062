// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int

	// DatabaseURL is the PostgreSQL connection string. Required.
	DatabaseURL string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogPretty switches to console log output for local runs.
	LogPretty bool

	// StripeAPIKey enables the payment processor when set. Subscription
	// endpoints return 503 without it; everything else still works.
	StripeAPIKey string

	// NATSURL enables event publishing when set.
	NATSURL string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	cfg := &Config{
		Port:         v.GetInt("PORT"),
		DatabaseURL:  v.GetString("DATABASE_URL"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogPretty:    v.GetBool("LOG_PRETTY"),
		StripeAPIKey: v.GetString("STRIPE_SECRET_KEY"),
		NATSURL:      v.GetString("NATS_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}
