package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketOutcome represents one possible result of a market and its share supply
type MarketOutcome struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID  uuid.UUID `gorm:"type:uuid;not null;index:idx_market_outcomes_market" json:"market_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"` // 'YES', 'BTC', 'Team A'
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	Supply    int64     `gorm:"not null;default:0;check:supply >= 0" json:"supply"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Market *Market `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"market,omitempty"`
}

// TableName specifies the table name for MarketOutcome model
func (*MarketOutcome) TableName() string {
	return "market_outcomes"
}

// BeforeCreate sets up the model before creation
func (mo *MarketOutcome) BeforeCreate(_ *gorm.DB) error {
	if mo.ID == uuid.Nil {
		mo.ID = uuid.New()
	}
	return nil
}

// ApplyBuy adds minted shares, refusing to pass maxSupply
func (mo *MarketOutcome) ApplyBuy(shares, maxSupply int64) error {
	if shares <= 0 {
		return ErrInvalidShareCount
	}
	if mo.Supply+shares > maxSupply {
		return ErrSupplyCapExceeded
	}
	mo.Supply += shares
	return nil
}

// ApplySell burns shares sold back to the curve
func (mo *MarketOutcome) ApplySell(shares int64) error {
	if shares <= 0 {
		return ErrInvalidShareCount
	}
	if shares > mo.Supply {
		return ErrNegativeSupply
	}
	mo.Supply -= shares
	return nil
}

// Validate performs validation on the market outcome model
func (mo *MarketOutcome) Validate() error {
	if mo.MarketID == uuid.Nil {
		return ErrInvalidMarketID
	}
	if mo.Name == "" {
		return ErrInvalidOutcomeName
	}
	if mo.Supply < 0 {
		return ErrNegativeSupply
	}
	return nil
}
