package trading

import (
	"context"
	"errors"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new trading repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx creates a new repository instance with the given transaction
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// GetMarketWithOutcomes retrieves a market with its outcomes in display order
func (r *repository) GetMarketWithOutcomes(ctx context.Context, marketID uuid.UUID) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).
		Preload("Outcomes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&market, "id = ?", marketID).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

// GetMarket retrieves a market without its outcomes
func (r *repository) GetMarket(ctx context.Context, marketID uuid.UUID) (*models.Market, error) {
	var market models.Market
	if err := r.db.WithContext(ctx).First(&market, "id = ?", marketID).Error; err != nil {
		return nil, err
	}
	return &market, nil
}

// LockOutcome reads an outcome row for update
func (r *repository) LockOutcome(ctx context.Context, outcomeID uuid.UUID) (*models.MarketOutcome, error) {
	var outcome models.MarketOutcome
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&outcome, "id = ?", outcomeID).Error
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// UpdateOutcomeSupply persists an outcome's supply
func (r *repository) UpdateOutcomeSupply(ctx context.Context, outcome *models.MarketOutcome) error {
	result := r.db.WithContext(ctx).
		Model(&models.MarketOutcome{}).
		Where("id = ?", outcome.ID).
		Update("supply", outcome.Supply)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPosition retrieves a wallet's position on one outcome
func (r *repository) GetPosition(ctx context.Context, outcomeID uuid.UUID, wallet string) (*models.Position, error) {
	var position models.Position
	err := r.db.WithContext(ctx).
		Where("outcome_id = ? AND wallet = ?", outcomeID, wallet).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

// SavePosition inserts a new position or updates an existing one
func (r *repository) SavePosition(ctx context.Context, position *models.Position) error {
	if err := position.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(position).Error
}

// GetPositionsByWallet retrieves a wallet's open positions with outcome and market
func (r *repository) GetPositionsByWallet(ctx context.Context, wallet string) ([]models.Position, error) {
	var positions []models.Position
	err := r.db.WithContext(ctx).
		Preload("Outcome.Market").
		Where("wallet = ? AND shares > ?", wallet, 0).
		Order("updated_at DESC").
		Find(&positions).Error
	return positions, err
}

// CreateTrade records an executed trade. A reused transaction signature is
// reported as models.ErrDuplicateTxSignature.
func (r *repository) CreateTrade(ctx context.Context, trade *models.Trade) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(trade).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateTxSignature
	}
	return err
}

// ListTrades retrieves trades newest first with pagination
func (r *repository) ListTrades(ctx context.Context, filters *TradeFilters) ([]models.Trade, int64, error) {
	var trades []models.Trade
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Trade{})
	if filters.MarketID != nil {
		query = query.Where("market_id = ?", *filters.MarketID)
	}
	if filters.Wallet != "" {
		query = query.Where("wallet = ?", filters.Wallet)
	}
	if filters.Side != nil {
		query = query.Where("side = ?", *filters.Side)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filters.Page - 1) * filters.PerPage
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(filters.PerPage).
		Find(&trades).Error

	return trades, total, err
}

// LockWallet takes a transaction-scoped advisory lock keyed by the wallet
func (r *repository) LockWallet(ctx context.Context, wallet string) error {
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", wallet).Error
}

// CountRecentTrades counts a wallet's trades since the given time
func (r *repository) CountRecentTrades(ctx context.Context, wallet string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("wallet = ? AND created_at >= ?", wallet, since).
		Count(&count).Error
	return count, err
}
