package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

// Config holds everything the checkout backend reads from the environment.
// GatewayAPIKey and WebhookSecret are deliberately not marked required: their
// absence is surfaced as a configuration error when the gateway client or the
// webhook verifier is exercised, never as a startup crash.
type Config struct {
	GatewayBaseURL string `env:"PAYPLOC_API_URL" envDefault:"https://sgdloeozxmbtsahygctf.supabase.co/functions/v1"`
	GatewayAPIKey  string `env:"PAYPLOC_API_KEY"`
	WebhookSecret  string `env:"PAYPLOC_WEBHOOK_SECRET"`

	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
