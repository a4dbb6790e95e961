package trading

import (
	"github.com/ganette57/pumpmarket.fun-sub001/models"
)

// bpsDenominator is 100% expressed in basis points.
const bpsDenominator = 10_000

// Config represents the configuration for the trading module
type Config struct {
	MaxSharesPerTrade  int64 `env:"TRADE_MAX_SHARES" env-default:"1000"`
	DefaultSlippageBps int   `env:"TRADE_DEFAULT_SLIPPAGE_BPS" env-default:"100"`
	MaxSlippageBps     int   `env:"TRADE_MAX_SLIPPAGE_BPS" env-default:"5000"`
	MaxTradesPerMinute int   `env:"TRADE_MAX_PER_MINUTE" env-default:"30"`
	ModerateImpactBps  int   `env:"TRADE_MODERATE_IMPACT_BPS" env-default:"200"`
	HighImpactBps      int   `env:"TRADE_HIGH_IMPACT_BPS" env-default:"1000"`
}

// Validate validates the trading configuration. MaxTradesPerMinute of zero
// disables the per-wallet rate limit.
func (c *Config) Validate() error {
	type validation struct {
		ok  bool
		err error
	}

	checks := []validation{
		{c.MaxSharesPerTrade > 0, models.ErrInvalidSharesPerTrade},

		{c.MaxSlippageBps > 0 && c.MaxSlippageBps <= bpsDenominator, models.ErrInvalidSlippageLimit},
		{c.DefaultSlippageBps >= 0 && c.DefaultSlippageBps <= c.MaxSlippageBps, models.ErrInvalidSlippageLimit},

		{c.MaxTradesPerMinute >= 0, models.ErrInvalidRateLimit},

		{c.ModerateImpactBps > 0 && c.HighImpactBps > c.ModerateImpactBps,
			models.ErrInvalidPriceImpactThresholds},
	}

	for _, v := range checks {
		if !v.ok {
			return v.err
		}
	}
	return nil
}

// GetDefaultConfig returns the default trading configuration
func GetDefaultConfig() *Config {
	return &Config{
		MaxSharesPerTrade:  1000,
		DefaultSlippageBps: 100,  // 1%
		MaxSlippageBps:     5000, // 50%
		MaxTradesPerMinute: 30,
		ModerateImpactBps:  200,  // 2% price impact
		HighImpactBps:      1000, // 10% price impact
	}
}
