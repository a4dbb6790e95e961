package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TradeSide represents the direction of a trade
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// IsValid reports whether s is buy or sell
func (s TradeSide) IsValid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}

// Trade is an executed buy or sell against an outcome's curve
type Trade struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_trades_market" json:"market_id"`
	OutcomeID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"outcome_id"`
	Wallet          string          `gorm:"type:varchar(44);not null;index:idx_trades_wallet" json:"wallet"`
	Side            TradeSide       `gorm:"type:varchar(4);not null" json:"side"`
	RequestedShares int64           `gorm:"not null" json:"requested_shares"`
	ExecutedShares  int64           `gorm:"not null;check:executed_shares > 0" json:"executed_shares"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,9);not null" json:"amount"`
	AveragePrice    decimal.Decimal `gorm:"type:decimal(20,9);not null" json:"average_price"`
	SupplyBefore    int64           `gorm:"not null" json:"supply_before"`
	SupplyAfter     int64           `gorm:"not null" json:"supply_after"`
	TxSignature     *string         `gorm:"type:varchar(88);uniqueIndex" json:"tx_signature,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`

	Market  *Market        `gorm:"foreignKey:MarketID" json:"market,omitempty"`
	Outcome *MarketOutcome `gorm:"foreignKey:OutcomeID" json:"outcome,omitempty"`
}

// TableName specifies the table name for Trade model
func (*Trade) TableName() string {
	return "trades"
}

// BeforeCreate sets up the model before creation
func (t *Trade) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// SupplyDelta is the signed change in outcome supply caused by the trade
func (t *Trade) SupplyDelta() int64 {
	if t.Side == TradeSideSell {
		return -t.ExecutedShares
	}
	return t.ExecutedShares
}

// Validate performs validation on the trade model
func (t *Trade) Validate() error {
	if t.MarketID == uuid.Nil {
		return ErrInvalidMarketID
	}
	if t.OutcomeID == uuid.Nil {
		return ErrInvalidOutcomeID
	}
	if t.Wallet == "" {
		return ErrInvalidWallet
	}
	if !t.Side.IsValid() {
		return ErrInvalidTradeSide
	}
	if t.ExecutedShares <= 0 || t.ExecutedShares > t.RequestedShares {
		return ErrInvalidShareCount
	}
	if t.Amount.IsNegative() {
		return ErrInvalidTradeAmount
	}
	if t.SupplyAfter-t.SupplyBefore != t.SupplyDelta() || t.SupplyAfter < 0 {
		return ErrInvalidShareCount
	}
	if t.TxSignature != nil && (*t.TxSignature == "" || len(*t.TxSignature) > 88) {
		return ErrInvalidTxSignature
	}
	return nil
}
