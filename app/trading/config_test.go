package trading

import (
	"testing"

	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, GetDefaultConfig().Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
		err    error
	}{
		{"zero share limit", func(c *Config) { c.MaxSharesPerTrade = 0 }, models.ErrInvalidSharesPerTrade},
		{"max slippage over 100%", func(c *Config) { c.MaxSlippageBps = 10_001 }, models.ErrInvalidSlippageLimit},
		{"zero max slippage", func(c *Config) { c.MaxSlippageBps = 0 }, models.ErrInvalidSlippageLimit},
		{"default above max", func(c *Config) { c.DefaultSlippageBps = 6000 }, models.ErrInvalidSlippageLimit},
		{"negative default", func(c *Config) { c.DefaultSlippageBps = -1 }, models.ErrInvalidSlippageLimit},
		{"negative rate limit", func(c *Config) { c.MaxTradesPerMinute = -1 }, models.ErrInvalidRateLimit},
		{"zero moderate impact", func(c *Config) { c.ModerateImpactBps = 0 }, models.ErrInvalidPriceImpactThresholds},
		{"high below moderate", func(c *Config) { c.HighImpactBps = 100 }, models.ErrInvalidPriceImpactThresholds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.err)
		})
	}

	t.Run("rate limit can be disabled", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.MaxTradesPerMinute = 0
		assert.NoError(t, cfg.Validate())
	})
}
