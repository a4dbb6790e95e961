package markets

import (
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/models"
)

// Config represents the configuration for the markets module
type Config struct {
	MinOutcomes          int           `env:"MARKET_MIN_OUTCOMES" env-default:"2"`
	MaxOutcomes          int           `env:"MARKET_MAX_OUTCOMES" env-default:"10"`
	MaxTitleLength       int           `env:"MARKET_MAX_TITLE_LENGTH" env-default:"200"`
	MaxDescriptionLength int           `env:"MARKET_MAX_DESCRIPTION_LENGTH" env-default:"2000"`
	MinMarketDuration    time.Duration `env:"MIN_MARKET_DURATION" env-default:"1h"`
	MaxMarketDuration    time.Duration `env:"MAX_MARKET_DURATION" env-default:"8760h"`
	MarginFraction       float64       `env:"ODDS_MARGIN_FRACTION" env-default:"0.05"`
	OddsCacheTTL         time.Duration `env:"ODDS_CACHE_TTL" env-default:"5s"`
	CurveSamplePoints    int           `env:"CURVE_SAMPLE_POINTS" env-default:"50"`
}

// Validate validates the market configuration
func (c *Config) Validate() error {
	if c.MinOutcomes < 2 || c.MaxOutcomes < c.MinOutcomes {
		return models.ErrInvalidOutcomeLimits
	}

	if c.MaxTitleLength <= 0 || c.MaxDescriptionLength <= 0 {
		return models.ErrInvalidTitleLength
	}

	if c.MinMarketDuration <= 0 || c.MaxMarketDuration <= c.MinMarketDuration {
		return models.ErrInvalidMarketDuration
	}

	if c.MarginFraction < 0 || c.MarginFraction >= 1 {
		return models.ErrInvalidMarginFactor
	}

	if c.OddsCacheTTL < 0 {
		return models.ErrInvalidCacheTTL
	}

	if c.CurveSamplePoints < 2 {
		return models.ErrInvalidSamplePoints
	}

	return nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		MinOutcomes:          2,
		MaxOutcomes:          10,
		MaxTitleLength:       200,
		MaxDescriptionLength: 2000,
		MinMarketDuration:    time.Hour,
		MaxMarketDuration:    365 * 24 * time.Hour,
		MarginFraction:       0.05,
		OddsCacheTTL:         5 * time.Second,
		CurveSamplePoints:    50,
	}
}
