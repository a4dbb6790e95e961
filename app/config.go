package app

import (
	"fmt"
	"os"

	"github.com/ganette57/pumpmarket.fun-sub001/app/database"
	"github.com/ganette57/pumpmarket.fun-sub001/app/markets"
	"github.com/ganette57/pumpmarket.fun-sub001/app/trading"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/cache"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/nexus"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type Config struct {
	DB      database.Config
	Cache   cache.Config
	Curve   curve.Config
	Markets markets.Config
	Trading trading.Config

	AppHost  string `env:"APP_HOST" env-default:"localhost"`
	AppPort  string `env:"APP_PORT" env-default:"8080"`
	Env      string `env:"APP_ENV" env-default:"development" validate:"oneof=development staging production"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Version  string `env:"APP_VERSION" env-default:"dev"`
}

// Address is the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate runs every module's own validation.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"database", c.DB.Validate},
		{"cache", c.Cache.Validate},
		{"curve", c.Curve.Validate},
		{"markets", c.Markets.Validate},
		{"trading", c.Trading.Validate},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s config: %w", check.name, err)
		}
	}
	return nil
}

// LoadConfig loads the application configuration from environment variables
// or a config file. Outside development placeholder secrets are rejected.
func LoadConfig(opts ...nexus.LoaderOption) (*Config, error) {
	if env := os.Getenv("APP_ENV"); env != "" && env != EnvDevelopment {
		opts = append(opts, nexus.WithSecurityChecker(nexus.NewWeakSecretChecker()))
	}

	c := &Config{}
	if err := nexus.NewLoader(opts...).Load(c); err != nil {
		return nil, err
	}
	return c, c.Validate()
}
