package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Position is a wallet's holding of one outcome's shares
type Position struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_positions_holder" json:"market_id"`
	OutcomeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_positions_holder" json:"outcome_id"`
	Wallet    string          `gorm:"type:varchar(44);not null;uniqueIndex:idx_positions_holder;index" json:"wallet"`
	Shares    int64           `gorm:"not null;default:0;check:shares >= 0" json:"shares"`
	CostBasis decimal.Decimal `gorm:"type:decimal(20,9);not null;default:0" json:"cost_basis"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Outcome *MarketOutcome `gorm:"foreignKey:OutcomeID" json:"outcome,omitempty"`
}

// TableName specifies the table name for Position model
func (*Position) TableName() string {
	return "positions"
}

// BeforeCreate sets up the model before creation
func (p *Position) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Add records bought shares and what was paid for them
func (p *Position) Add(shares int64, cost decimal.Decimal) error {
	if shares <= 0 {
		return ErrInvalidShareCount
	}
	if cost.IsNegative() {
		return ErrInvalidTradeAmount
	}
	p.Shares += shares
	p.CostBasis = p.CostBasis.Add(cost)
	return nil
}

// Remove takes sold shares out of the position. The cost basis is reduced
// pro rata so the average entry price is unchanged.
func (p *Position) Remove(shares int64) error {
	if shares <= 0 {
		return ErrInvalidShareCount
	}
	if shares > p.Shares {
		return ErrInsufficientShares
	}
	if shares == p.Shares {
		p.Shares = 0
		p.CostBasis = decimal.Zero
		return nil
	}
	remaining := decimal.NewFromInt(p.Shares - shares)
	p.CostBasis = p.CostBasis.Mul(remaining).Div(decimal.NewFromInt(p.Shares)).Round(9)
	p.Shares -= shares
	return nil
}

// AverageEntryPrice is the cost basis per held share
func (p *Position) AverageEntryPrice() decimal.Decimal {
	if p.Shares == 0 {
		return decimal.Zero
	}
	return p.CostBasis.Div(decimal.NewFromInt(p.Shares))
}

// IsEmpty reports whether the wallet holds no shares
func (p *Position) IsEmpty() bool {
	return p.Shares == 0
}

// Validate performs validation on the position model
func (p *Position) Validate() error {
	if p.MarketID == uuid.Nil {
		return ErrInvalidMarketID
	}
	if p.OutcomeID == uuid.Nil {
		return ErrInvalidOutcomeID
	}
	if p.Wallet == "" {
		return ErrInvalidWallet
	}
	if p.Shares < 0 {
		return ErrNegativePosition
	}
	return nil
}
