package trading

import (
	"math"
	"strings"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/app/markets"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/formatter"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/validator"
	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ImpactLevel buckets the price impact of a trade
type ImpactLevel string

const (
	ImpactLow      ImpactLevel = "low"
	ImpactModerate ImpactLevel = "moderate"
	ImpactHigh     ImpactLevel = "high"
)

// QuoteRequest asks what a buy or sell would execute at right now
type QuoteRequest struct {
	MarketID  uuid.UUID        `json:"market_id"`
	OutcomeID uuid.UUID        `json:"outcome_id"`
	Side      models.TradeSide `json:"side"`
	Shares    int64            `json:"shares"`
}

// Validate checks the quote request. Share counts are not bounded here: the
// quote clamps them to [0, MaxSharesPerTrade] and reports the cap.
func (r *QuoteRequest) Validate(v *validator.Validator, _ *Config) bool {
	r.Side = models.TradeSide(strings.ToLower(strings.TrimSpace(string(r.Side))))

	v.Check(r.MarketID != uuid.Nil, "market_id", "must be provided")
	v.Check(r.OutcomeID != uuid.Nil, "outcome_id", "must be provided")
	v.Check(r.Side.IsValid(), "side", "must be buy or sell")

	return v.Valid()
}

// QuoteResponse is an estimate; the executed trade is priced against the
// supply at execution time
type QuoteResponse struct {
	MarketID        uuid.UUID        `json:"market_id"`
	OutcomeID       uuid.UUID        `json:"outcome_id"`
	Side            models.TradeSide `json:"side"`
	RequestedShares int64            `json:"requested_shares"`
	ExecutedShares  int64            `json:"executed_shares"`
	Amount          decimal.Decimal  `json:"amount"`
	AveragePrice    decimal.Decimal  `json:"average_price"`
	Capped          bool             `json:"capped"`
	SupplyBefore    int64            `json:"supply_before"`
	SupplyAfter     int64            `json:"supply_after"`
	SpotPriceBefore decimal.Decimal  `json:"spot_price_before"`
	SpotPriceAfter  decimal.Decimal  `json:"spot_price_after"`
	PriceImpactBps  int64            `json:"price_impact_bps"`
	ImpactLevel     ImpactLevel      `json:"impact_level"`
	SlippageBps     int              `json:"slippage_bps"`
	MaxCost         *decimal.Decimal `json:"max_cost,omitempty"`
	MinProceeds     *decimal.Decimal `json:"min_proceeds,omitempty"`
}

// TradeRequest executes a buy or sell. The wallet comes from the request
// header, the side from the route.
type TradeRequest struct {
	MarketID  uuid.UUID `json:"market_id"`
	OutcomeID uuid.UUID `json:"outcome_id"`
	Shares    int64     `json:"shares"`

	// Explicit bounds. MaxCost applies to buys and MinProceeds to sells.
	MaxCost     *decimal.Decimal `json:"max_cost,omitempty"`
	MinProceeds *decimal.Decimal `json:"min_proceeds,omitempty"`

	// Used to derive a bound when the explicit one is missing.
	ExpectedAmount *decimal.Decimal `json:"expected_amount,omitempty"`
	SlippageBps    *int             `json:"slippage_bps,omitempty"`

	TxSignature *string `json:"tx_signature,omitempty"`
}

// Validate checks the trade request
func (r *TradeRequest) Validate(v *validator.Validator, cfg *Config) bool {
	v.Check(r.MarketID != uuid.Nil, "market_id", "must be provided")
	v.Check(r.OutcomeID != uuid.Nil, "outcome_id", "must be provided")
	checkShares(v, r.Shares, cfg)

	if r.MaxCost != nil {
		v.Check(r.MaxCost.IsPositive(), "max_cost", "must be greater than zero")
	}
	if r.MinProceeds != nil {
		v.Check(!r.MinProceeds.IsNegative(), "min_proceeds", "must not be negative")
	}
	if r.ExpectedAmount != nil {
		v.Check(r.ExpectedAmount.IsPositive(), "expected_amount", "must be greater than zero")
	}
	if r.SlippageBps != nil {
		v.Check(validator.Between(*r.SlippageBps, 0, cfg.MaxSlippageBps), "slippage_bps",
			"must be between 0 and the maximum slippage")
	}

	if r.TxSignature != nil {
		sig := strings.TrimSpace(*r.TxSignature)
		r.TxSignature = &sig
		v.Check(validator.IsSolanaSignature(sig), "tx_signature", "must be a valid Solana transaction signature")
	}

	return v.Valid()
}

func checkShares(v *validator.Validator, shares int64, cfg *Config) {
	v.Check(shares > 0, "shares", "must be greater than zero")
	v.Check(shares <= cfg.MaxSharesPerTrade, "shares", "exceeds the per-trade limit")
}

// TradeResponse is an executed trade with the wallet's resulting position and
// the refreshed market odds
type TradeResponse struct {
	Trade    *models.Trade         `json:"trade"`
	Position *models.Position      `json:"position"`
	Odds     *markets.OddsSnapshot `json:"odds,omitempty"`
}

// TradeFilters represents filters for listing trades
type TradeFilters struct {
	MarketID *uuid.UUID        `form:"-"`
	Wallet   string            `form:"wallet"`
	Side     *models.TradeSide `form:"side"`
	Page     int               `form:"page"`
	PerPage  int               `form:"per_page"`
}

// Normalize fills paging defaults
func (f *TradeFilters) Normalize() {
	f.Wallet = strings.TrimSpace(f.Wallet)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}
}

// TradeListResponse represents paginated trades
type TradeListResponse struct {
	Trades  []models.Trade `json:"trades"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// PositionResponse is a holding valued against the current curve
type PositionResponse struct {
	MarketID          uuid.UUID           `json:"market_id"`
	MarketTitle       string              `json:"market_title"`
	MarketStatus      models.MarketStatus `json:"market_status"`
	OutcomeID         uuid.UUID           `json:"outcome_id"`
	OutcomeName       string              `json:"outcome_name"`
	Shares            int64               `json:"shares"`
	CostBasis         decimal.Decimal     `json:"cost_basis"`
	AverageEntryPrice decimal.Decimal     `json:"average_entry_price"`
	SpotPrice         decimal.Decimal     `json:"spot_price"`
	MarkValue         decimal.Decimal     `json:"mark_value"`
	UnrealizedPnL     decimal.Decimal     `json:"unrealized_pnl"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// ToPositionResponse values a position by what selling all of it would
// return right now. The outcome must be loaded.
func ToPositionResponse(p *models.Position, engine *curve.Engine) PositionResponse {
	resp := PositionResponse{
		MarketID:          p.MarketID,
		OutcomeID:         p.OutcomeID,
		Shares:            p.Shares,
		CostBasis:         p.CostBasis,
		AverageEntryPrice: p.AverageEntryPrice().Round(formatter.SOLDecimals),
		UpdatedAt:         p.UpdatedAt,
	}

	if p.Outcome == nil {
		return resp
	}
	resp.OutcomeName = p.Outcome.Name
	if p.Outcome.Market != nil {
		resp.MarketTitle = p.Outcome.Market.Title
		resp.MarketStatus = p.Outcome.Market.Status
	}

	supply := float64(p.Outcome.Supply)
	resp.SpotPrice = formatter.SOL(engine.PriceAtSupply(supply))
	resp.MarkValue = formatter.SOL(engine.QuoteSell(supply, float64(p.Shares)).Amount)
	resp.UnrealizedPnL = resp.MarkValue.Sub(p.CostBasis)
	return resp
}

// buildQuote turns an engine quote at the given supply into a response
func buildQuote(engine *curve.Engine, cfg *Config, outcome *models.MarketOutcome, side models.TradeSide, q curve.Quote) *QuoteResponse {
	before := outcome.Supply
	after := before + q.ExecutedShares
	if side == models.TradeSideSell {
		after = before - q.ExecutedShares
	}

	spotBefore := engine.PriceAtSupply(float64(before))
	spotAfter := engine.PriceAtSupply(float64(after))
	impact := priceImpactBps(spotBefore, spotAfter)

	resp := &QuoteResponse{
		MarketID:        outcome.MarketID,
		OutcomeID:       outcome.ID,
		Side:            side,
		RequestedShares: q.RequestedShares,
		ExecutedShares:  q.ExecutedShares,
		Amount:          formatter.SOL(q.Amount),
		AveragePrice:    formatter.SOL(q.AveragePrice),
		Capped:          q.Capped,
		SupplyBefore:    before,
		SupplyAfter:     after,
		SpotPriceBefore: formatter.SOL(spotBefore),
		SpotPriceAfter:  formatter.SOL(spotAfter),
		PriceImpactBps:  impact,
		ImpactLevel:     impactLevel(impact, cfg),
		SlippageBps:     cfg.DefaultSlippageBps,
	}

	bound := slippageBound(side, resp.Amount, cfg.DefaultSlippageBps)
	if side == models.TradeSideBuy {
		resp.MaxCost = &bound
	} else {
		resp.MinProceeds = &bound
	}
	return resp
}

func priceImpactBps(before, after float64) int64 {
	if before <= 0 {
		return 0
	}
	return int64(math.Round(math.Abs(after-before) / before * bpsDenominator))
}

func impactLevel(bps int64, cfg *Config) ImpactLevel {
	switch {
	case bps >= int64(cfg.HighImpactBps):
		return ImpactHigh
	case bps >= int64(cfg.ModerateImpactBps):
		return ImpactModerate
	default:
		return ImpactLow
	}
}

// slippageBound widens an expected amount by bps: up for buys, down for sells
func slippageBound(side models.TradeSide, expected decimal.Decimal, bps int) decimal.Decimal {
	factor := decimal.NewFromInt(int64(bps)).Div(decimal.NewFromInt(bpsDenominator))
	if side == models.TradeSideBuy {
		return expected.Mul(decimal.NewFromInt(1).Add(factor)).Round(formatter.SOLDecimals)
	}
	return expected.Mul(decimal.NewFromInt(1).Sub(factor)).Round(formatter.SOLDecimals)
}
