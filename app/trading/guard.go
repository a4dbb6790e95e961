package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/shopspring/decimal"
)

// guard implements the Guard interface
type guard struct {
	config *Config
	repo   Repository
}

// NewGuard creates the pre-trade checks
func NewGuard(config *Config, repo Repository) Guard {
	return &guard{
		config: config,
		repo:   repo,
	}
}

// WithRepo returns a guard counting trades through repo
func (g *guard) WithRepo(repo Repository) Guard {
	return &guard{
		config: g.config,
		repo:   repo,
	}
}

// CheckMarket rejects trades on markets that are not open or already past close
func (g *guard) CheckMarket(market *models.Market, now time.Time) error {
	if market == nil || !market.IsOpen(now) {
		return models.ErrMarketNotOpen
	}
	return nil
}

// CheckShareLimit enforces the per-trade share limit
func (g *guard) CheckShareLimit(shares int64) error {
	if shares <= 0 {
		return models.ErrInvalidShareCount
	}
	if shares > g.config.MaxSharesPerTrade {
		return models.ErrTooManySharesPerTx
	}
	return nil
}

// CheckRateLimit caps trades per wallet over the last minute. The count is
// only exact when the wallet is locked in the same transaction.
func (g *guard) CheckRateLimit(ctx context.Context, wallet string, now time.Time) error {
	if g.config.MaxTradesPerMinute == 0 {
		return nil
	}

	count, err := g.repo.CountRecentTrades(ctx, wallet, now.Add(-time.Minute))
	if err != nil {
		return fmt.Errorf("count recent trades: %w", err)
	}

	if count >= int64(g.config.MaxTradesPerMinute) {
		return models.ErrRateLimitExceeded
	}
	return nil
}

// CheckSlippage compares the executed amount with the caller's bound. A buy
// may not cost more than the limit and a sell may not return less.
func (g *guard) CheckSlippage(side models.TradeSide, amount decimal.Decimal, limit *decimal.Decimal) error {
	if limit == nil {
		return nil
	}
	if side == models.TradeSideBuy && amount.GreaterThan(*limit) {
		return models.ErrSlippageExceeded
	}
	if side == models.TradeSideSell && amount.LessThan(*limit) {
		return models.ErrSlippageExceeded
	}
	return nil
}

// tradeLimit resolves the bound a trade is held to: the explicit one for its
// side, else the expected amount widened by the requested or default slippage
func tradeLimit(side models.TradeSide, req *TradeRequest, cfg *Config) *decimal.Decimal {
	if side == models.TradeSideBuy && req.MaxCost != nil {
		return req.MaxCost
	}
	if side == models.TradeSideSell && req.MinProceeds != nil {
		return req.MinProceeds
	}
	if req.ExpectedAmount == nil {
		return nil
	}

	bps := cfg.DefaultSlippageBps
	if req.SlippageBps != nil {
		bps = *req.SlippageBps
	}
	limit := slippageBound(side, *req.ExpectedAmount, bps)
	return &limit
}
