package trading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/app/markets"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/formatter"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// service implements the Service interface
type service struct {
	db        *gorm.DB // Main DB connection for starting transactions
	repo      Repository
	config    *Config
	engine    *curve.Engine
	guard     Guard
	refresher markets.OddsRefresher
	log       logger.Logger
	now       func() time.Time
}

// NewService creates a new trading service. refresher may be nil.
func NewService(
	db *gorm.DB,
	repo Repository,
	config *Config,
	engine *curve.Engine,
	guard Guard,
	refresher markets.OddsRefresher,
	log logger.Logger,
) Service {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &service{
		db:        db,
		repo:      repo,
		config:    config,
		engine:    engine,
		guard:     guard,
		refresher: refresher,
		log:       log,
		now:       time.Now,
	}
}

// Quote prices a buy or sell against the current, unlocked supply. Requests
// above the per-trade limit are priced at the limit and flagged as capped.
func (s *service) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	market, outcome, err := s.loadMarketAndOutcome(ctx, req.MarketID, req.OutcomeID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.CheckMarket(market, s.now()); err != nil {
		return nil, err
	}

	shares := min(req.Shares, s.config.MaxSharesPerTrade)

	var q curve.Quote
	if req.Side == models.TradeSideSell {
		q = s.engine.QuoteSell(float64(outcome.Supply), float64(shares))
	} else {
		q = s.engine.QuoteBuy(float64(outcome.Supply), float64(shares))
	}
	if shares < req.Shares {
		q.RequestedShares = req.Shares
		q.Capped = true
	}

	return buildQuote(s.engine, s.config, outcome, req.Side, q), nil
}

// Buy mints shares of an outcome for the wallet
func (s *service) Buy(ctx context.Context, wallet string, req *TradeRequest) (*TradeResponse, error) {
	return s.execute(ctx, models.TradeSideBuy, wallet, req)
}

// Sell burns shares of an outcome held by the wallet. Requests beyond the
// position are clamped to it.
func (s *service) Sell(ctx context.Context, wallet string, req *TradeRequest) (*TradeResponse, error) {
	return s.execute(ctx, models.TradeSideSell, wallet, req)
}

// execute runs a trade in a single transaction with the wallet and outcome
// row locked, then refreshes the market odds once committed
func (s *service) execute(ctx context.Context, side models.TradeSide, wallet string, req *TradeRequest) (*TradeResponse, error) {
	now := s.now()

	if err := s.guard.CheckShareLimit(req.Shares); err != nil {
		return nil, err
	}

	limit := tradeLimit(side, req, s.config)

	var trade *models.Trade
	var position *models.Position

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)

		// the wallet lock is taken before the outcome lock on every path
		if s.config.MaxTradesPerMinute > 0 {
			if err := repoTx.LockWallet(ctx, wallet); err != nil {
				return fmt.Errorf("lock wallet: %w", err)
			}
			if err := s.guard.WithRepo(repoTx).CheckRateLimit(ctx, wallet, now); err != nil {
				return err
			}
		}

		outcome, err := repoTx.LockOutcome(ctx, req.OutcomeID)
		if err != nil {
			return notFound(err, "lock outcome")
		}
		if outcome.MarketID != req.MarketID {
			return models.ErrOutcomeNotInMarket
		}

		market, err := repoTx.GetMarket(ctx, req.MarketID)
		if err != nil {
			return notFound(err, "get market")
		}
		if err := s.guard.CheckMarket(market, now); err != nil {
			return err
		}

		position, err = s.loadPosition(ctx, repoTx, outcome, wallet)
		if err != nil {
			return err
		}

		trade, err = s.fill(side, outcome, position, req, limit)
		if err != nil {
			return err
		}

		if err := repoTx.UpdateOutcomeSupply(ctx, outcome); err != nil {
			return fmt.Errorf("update outcome supply: %w", err)
		}
		if err := repoTx.SavePosition(ctx, position); err != nil {
			return fmt.Errorf("save position: %w", err)
		}
		if err := repoTx.CreateTrade(ctx, trade); err != nil {
			if errors.Is(err, models.ErrDuplicateTxSignature) {
				return err
			}
			return fmt.Errorf("create trade: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("trade executed", logger.Fields{
		"trade_id":   trade.ID.String(),
		"market_id":  trade.MarketID.String(),
		"outcome_id": trade.OutcomeID.String(),
		"side":       string(side),
		"shares":     trade.ExecutedShares,
		"amount":     formatter.FormatSOL(trade.Amount),
		"wallet":     wallet,
	})

	resp := &TradeResponse{Trade: trade, Position: position}
	if s.refresher != nil {
		snap, err := s.refresher.RefreshOdds(ctx, trade.MarketID)
		if err != nil {
			s.log.Warn("odds refresh failed after trade", logger.Fields{
				"market_id": trade.MarketID.String(),
				"error":     err.Error(),
			})
		} else {
			resp.Odds = snap
		}
	}

	return resp, nil
}

// fill prices the trade against the locked supply and applies it to the
// outcome and position in memory
func (s *service) fill(
	side models.TradeSide,
	outcome *models.MarketOutcome,
	position *models.Position,
	req *TradeRequest,
	limit *decimal.Decimal,
) (*models.Trade, error) {
	supplyBefore := outcome.Supply

	var q curve.Quote
	if side == models.TradeSideSell {
		shares := req.Shares
		if shares > position.Shares {
			shares = position.Shares
		}
		q = s.engine.QuoteSell(float64(supplyBefore), float64(shares))
		q.RequestedShares = req.Shares
		q.Capped = q.ExecutedShares < req.Shares
	} else {
		q = s.engine.QuoteBuy(float64(supplyBefore), float64(req.Shares))
	}

	if q.ExecutedShares == 0 {
		return nil, models.ErrNothingExecuted
	}

	amount := formatter.SOL(q.Amount)
	if err := s.guard.CheckSlippage(side, amount, limit); err != nil {
		return nil, err
	}

	if side == models.TradeSideSell {
		if err := outcome.ApplySell(q.ExecutedShares); err != nil {
			return nil, err
		}
		if err := position.Remove(q.ExecutedShares); err != nil {
			return nil, err
		}
	} else {
		if err := outcome.ApplyBuy(q.ExecutedShares, s.engine.Config().MaxSupply); err != nil {
			return nil, err
		}
		if err := position.Add(q.ExecutedShares, amount); err != nil {
			return nil, err
		}
	}

	trade := &models.Trade{
		MarketID:        outcome.MarketID,
		OutcomeID:       outcome.ID,
		Wallet:          position.Wallet,
		Side:            side,
		RequestedShares: q.RequestedShares,
		ExecutedShares:  q.ExecutedShares,
		Amount:          amount,
		AveragePrice:    formatter.SOL(q.AveragePrice),
		SupplyBefore:    supplyBefore,
		SupplyAfter:     outcome.Supply,
		TxSignature:     req.TxSignature,
	}
	if err := trade.Validate(); err != nil {
		return nil, err
	}
	return trade, nil
}

// loadPosition returns the wallet's position on the outcome, or a new empty one
func (s *service) loadPosition(ctx context.Context, repo Repository, outcome *models.MarketOutcome, wallet string) (*models.Position, error) {
	position, err := repo.GetPosition(ctx, outcome.ID, wallet)
	if err == nil {
		return position, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get position: %w", err)
	}
	return &models.Position{
		MarketID:  outcome.MarketID,
		OutcomeID: outcome.ID,
		Wallet:    wallet,
		CostBasis: decimal.Zero,
	}, nil
}

// ListTrades returns a page of trades, newest first
func (s *service) ListTrades(ctx context.Context, filters *TradeFilters) (*TradeListResponse, error) {
	if filters == nil {
		filters = &TradeFilters{}
	}
	filters.Normalize()

	trades, total, err := s.repo.ListTrades(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}

	return &TradeListResponse{
		Trades:  trades,
		Total:   total,
		Page:    filters.Page,
		PerPage: filters.PerPage,
	}, nil
}

// GetPositions returns a wallet's holdings marked to the current curve
func (s *service) GetPositions(ctx context.Context, wallet string) ([]PositionResponse, error) {
	positions, err := s.repo.GetPositionsByWallet(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}

	resp := make([]PositionResponse, len(positions))
	for i := range positions {
		resp[i] = ToPositionResponse(&positions[i], s.engine)
	}
	return resp, nil
}

// loadMarketAndOutcome fetches the market with outcomes and picks the requested one
func (s *service) loadMarketAndOutcome(ctx context.Context, marketID, outcomeID uuid.UUID) (*models.Market, *models.MarketOutcome, error) {
	market, err := s.repo.GetMarketWithOutcomes(ctx, marketID)
	if err != nil {
		return nil, nil, notFound(err, "get market")
	}

	outcome, ok := market.FindOutcome(outcomeID)
	if !ok {
		return nil, nil, models.ErrOutcomeNotInMarket
	}
	return market, outcome, nil
}

// notFound maps gorm's not-found error onto the domain one and wraps the rest
func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrRecordNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
