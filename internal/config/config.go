package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"creator-ledger/internal/config/configs"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library.
// The nested structs are tagged with envPrefix so their fields are parsed
// with the given prefix. See the individual types in the configs package
// for default values and options. Use Load to construct a Config.
type Config struct {
	// Env specifies the deployment environment (e.g. prod, dev).
	Env string `env:"ENV" envDefault:"prod"`

	// Store selects the ledger store backend: "postgres" (default) or
	// "memory" for an embedded, non-durable ledger.
	Store string `env:"STORE" envDefault:"postgres"`

	// HTTP holds configuration for the HTTP server. Environment variables
	// prefixed with HTTP_ will populate this struct.
	HTTP configs.HTTP `envPrefix:"HTTP_"`

	// Log configures the structured logger. Environment variables prefixed
	// with LOG_ will populate this struct.
	Log configs.Logger `envPrefix:"LOG_"`

	// Psql configures the PostgreSQL connection. Environment variables
	// prefixed with PSQL_ will populate this struct.
	Psql configs.Postgres `envPrefix:"PSQL_"`

	// Fee configures the platform fee applied at payout authorization.
	// Environment variables prefixed with FEE_ will populate this struct.
	Fee configs.Fee `envPrefix:"FEE_"`
}

// Load reads configuration from environment variables into a Config and
// validates the sections that carry invariants (the fee rate range). All
// fields are loaded with their specified defaults when no environment
// variable is provided.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Store != "postgres" && cfg.Store != "memory" {
		return cfg, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
	if err := cfg.Fee.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
