package trading

import (
	"context"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines the interface for trading data access
type Repository interface {
	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) Repository

	GetMarketWithOutcomes(ctx context.Context, marketID uuid.UUID) (*models.Market, error)
	GetMarket(ctx context.Context, marketID uuid.UUID) (*models.Market, error)
	// LockOutcome reads the outcome row with SELECT ... FOR UPDATE. Only
	// meaningful on a transaction-bound repository.
	LockOutcome(ctx context.Context, outcomeID uuid.UUID) (*models.MarketOutcome, error)
	UpdateOutcomeSupply(ctx context.Context, outcome *models.MarketOutcome) error

	GetPosition(ctx context.Context, outcomeID uuid.UUID, wallet string) (*models.Position, error)
	SavePosition(ctx context.Context, position *models.Position) error
	GetPositionsByWallet(ctx context.Context, wallet string) ([]models.Position, error)

	CreateTrade(ctx context.Context, trade *models.Trade) error
	ListTrades(ctx context.Context, filters *TradeFilters) ([]models.Trade, int64, error)
	CountRecentTrades(ctx context.Context, wallet string, since time.Time) (int64, error)
	// LockWallet serializes a wallet's trades until the transaction ends.
	// Only meaningful on a transaction-bound repository.
	LockWallet(ctx context.Context, wallet string) error
}

// Service defines the interface for trading business logic
type Service interface {
	Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error)
	Buy(ctx context.Context, wallet string, req *TradeRequest) (*TradeResponse, error)
	Sell(ctx context.Context, wallet string, req *TradeRequest) (*TradeResponse, error)
	ListTrades(ctx context.Context, filters *TradeFilters) (*TradeListResponse, error)
	GetPositions(ctx context.Context, wallet string) ([]PositionResponse, error)
}

// Guard holds the pre-trade checks
type Guard interface {
	// WithRepo returns a guard counting trades through repo
	WithRepo(repo Repository) Guard

	CheckMarket(market *models.Market, now time.Time) error
	CheckShareLimit(shares int64) error
	CheckRateLimit(ctx context.Context, wallet string, now time.Time) error
	CheckSlippage(side models.TradeSide, amount decimal.Decimal, limit *decimal.Decimal) error
}
