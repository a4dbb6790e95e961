package curve

import (
	"errors"
	"math"
)

var (
	ErrInvalidMaxSupply  = errors.New("curve: max supply must be positive")
	ErrInvalidPriceRange = errors.New("curve: invalid base/max price range")
	ErrInvalidOddsRange  = errors.New("curve: invalid odds range")
	ErrNoOutcomes        = errors.New("curve: odds requested for zero outcomes")
)

// Config holds the per-deployment curve constants.
type Config struct {
	BasePrice float64 `env:"CURVE_BASE_PRICE" env-default:"0.01"`
	MaxPrice  float64 `env:"CURVE_MAX_PRICE" env-default:"0.02"`
	MaxSupply int64   `env:"CURVE_MAX_SUPPLY" env-default:"1000"`
	MinOdds   float64 `env:"ODDS_MIN" env-default:"1.01"`
	MaxOdds   float64 `env:"ODDS_MAX" env-default:"1000"`
}

// Validate rejects configurations that would yield negative slopes or
// unbounded prices.
func (c *Config) Validate() error {
	if c.MaxSupply <= 0 {
		return ErrInvalidMaxSupply
	}
	if !isFinite(c.BasePrice) || !isFinite(c.MaxPrice) || c.BasePrice < 0 || c.MaxPrice < c.BasePrice {
		return ErrInvalidPriceRange
	}
	if !isFinite(c.MinOdds) || !isFinite(c.MaxOdds) || c.MinOdds < 1 || c.MaxOdds < c.MinOdds {
		return ErrInvalidOddsRange
	}
	return nil
}

// Slope is the price increase per share.
func (c *Config) Slope() float64 {
	return (c.MaxPrice - c.BasePrice) / float64(c.MaxSupply)
}

// GetDefaultConfig returns the curve used by the public deployment.
func GetDefaultConfig() *Config {
	return &Config{
		BasePrice: 0.01, // SOL
		MaxPrice:  0.02, // SOL
		MaxSupply: 1000,
		MinOdds:   1.01,
		MaxOdds:   1000,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
