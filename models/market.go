package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketType represents the type of market
type MarketType string

const (
	MarketTypeBinary       MarketType = "binary"
	MarketTypeMultiOutcome MarketType = "multi_outcome"
)

// MarketStatus represents the current status of a market
type MarketStatus string

const (
	MarketStatusOpen      MarketStatus = "open"
	MarketStatusClosed    MarketStatus = "closed"
	MarketStatusResolved  MarketStatus = "resolved"
	MarketStatusCancelled MarketStatus = "cancelled"
)

// IsValid reports whether s is a known status.
func (s MarketStatus) IsValid() bool {
	switch s {
	case MarketStatusOpen, MarketStatusClosed, MarketStatusResolved, MarketStatusCancelled:
		return true
	}
	return false
}

// MarketTypeForOutcomes derives the market type from its outcome count.
func MarketTypeForOutcomes(n int) MarketType {
	if n == 2 {
		return MarketTypeBinary
	}
	return MarketTypeMultiOutcome
}

// MarketMetadata represents additional market metadata
type MarketMetadata struct {
	Tags      []string `json:"tags,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
	SourceURL string   `json:"source_url,omitempty"`
}

// Value implements driver.Valuer for the jsonb column
func (m MarketMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for the jsonb column
func (m *MarketMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return nil
}

// Market represents a prediction market priced on the bonding curve
type Market struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Title             string         `gorm:"type:varchar(255);not null" json:"title"`
	Description       string         `gorm:"type:text;not null;default:''" json:"description"`
	Category          string         `gorm:"type:varchar(50);index" json:"category"`
	MarketType        MarketType     `gorm:"type:varchar(20);default:'binary'" json:"market_type"`
	Status            MarketStatus   `gorm:"type:varchar(20);default:'open';index" json:"status"`
	CreatorWallet     string         `gorm:"type:varchar(44);not null;index" json:"creator_wallet"`
	CloseTime         time.Time      `gorm:"type:timestamptz;not null;index" json:"close_time"`
	ResolvedOutcomeID *uuid.UUID     `gorm:"type:uuid" json:"resolved_outcome_id"`
	Metadata          MarketMetadata `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Outcomes []MarketOutcome `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"outcomes,omitempty"`
	Trades   []Trade         `gorm:"foreignKey:MarketID" json:"-"`
}

// TableName specifies the table name for Market model
func (*Market) TableName() string {
	return "markets"
}

// BeforeCreate sets up the model before creation
func (m *Market) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IsOpen checks if the market accepts trades at the given instant
func (m *Market) IsOpen(now time.Time) bool {
	return m.Status == MarketStatusOpen && now.Before(m.CloseTime)
}

// CanTrade checks if trading is allowed right now
func (m *Market) CanTrade() bool {
	return m.IsOpen(time.Now())
}

// Close stops trading on an open market
func (m *Market) Close() error {
	if m.Status != MarketStatusOpen {
		return ErrMarketAlreadyClosed
	}
	m.Status = MarketStatusClosed
	return nil
}

// FindOutcome returns the outcome with the given ID, if it belongs to the market
func (m *Market) FindOutcome(id uuid.UUID) (*MarketOutcome, bool) {
	for i := range m.Outcomes {
		if m.Outcomes[i].ID == id {
			return &m.Outcomes[i], true
		}
	}
	return nil, false
}

// Supplies returns outcome supplies in outcome order, as the curve engine expects them
func (m *Market) Supplies() []float64 {
	out := make([]float64, len(m.Outcomes))
	for i := range m.Outcomes {
		out[i] = float64(m.Outcomes[i].Supply)
	}
	return out
}

// Validate performs validation on the market model
func (m *Market) Validate() error {
	if m.Title == "" {
		return ErrInvalidMarketTitle
	}
	if m.CreatorWallet == "" {
		return ErrMarketCreatorRequired
	}
	if m.MarketType != MarketTypeBinary && m.MarketType != MarketTypeMultiOutcome {
		return ErrInvalidMarketType
	}
	if !m.Status.IsValid() {
		return ErrInvalidMarketStatus
	}
	if m.CloseTime.IsZero() {
		return ErrInvalidCloseTime
	}
	return nil
}
