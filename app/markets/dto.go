package markets

import (
	"strings"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/sanitizer"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/validator"
	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/google/uuid"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	maxTags        = 10
	maxTagLength   = 30
	maxCategoryLen = 50
)

// CreateMarketRequest represents the request to create a market
// @Description Request payload for creating a new prediction market
type CreateMarketRequest struct {
	// Title Market question
	Title string `json:"title" example:"Will SOL close above $200 this week?"`
	// Description Resolution criteria and context
	Description string `json:"description"`
	// Category Free-form category label
	Category string `json:"category" example:"crypto"`
	// CreatorWallet Solana public key of the creator
	CreatorWallet string `json:"creator_wallet" example:"9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"`
	// CloseTime When trading stops
	CloseTime time.Time `json:"close_time"`
	// Outcomes Outcome names in display order, 2 for a binary market
	Outcomes []string `json:"outcomes" example:"YES,NO"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	// SourceURL Where the result will be read from
	SourceURL string `json:"source_url,omitempty"`
}

// Validate strips markup from every user-supplied string and records field
// errors on v. It returns v.Valid().
func (r *CreateMarketRequest) Validate(v *validator.Validator, s sanitizer.HTMLStripperer, cfg *Config, now time.Time) bool {
	r.Title = s.StripHTML(r.Title)
	r.Description = s.StripHTML(r.Description)
	r.Category = strings.ToLower(s.StripHTML(r.Category))
	r.CreatorWallet = strings.TrimSpace(r.CreatorWallet)
	r.Outcomes = sanitizer.StripAll(s, r.Outcomes)
	r.Tags = sanitizer.StripAll(s, r.Tags)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.SourceURL = strings.TrimSpace(r.SourceURL)

	v.Check(validator.NotBlank(r.Title), "title", "title is required")
	v.Check(validator.MaxRunes(r.Title, cfg.MaxTitleLength), "title", "title is too long")
	v.Check(validator.MaxRunes(r.Description, cfg.MaxDescriptionLength), "description", "description is too long")
	v.Check(validator.MaxRunes(r.Category, maxCategoryLen), "category", "category is too long")
	v.Check(validator.IsSolanaAddress(r.CreatorWallet), "creator_wallet", "must be a valid Solana address")

	v.Check(!r.CloseTime.IsZero(), "close_time", "close time is required")
	v.Check(!r.CloseTime.Before(now.Add(cfg.MinMarketDuration)), "close_time", "close time is too soon")
	v.Check(!r.CloseTime.After(now.Add(cfg.MaxMarketDuration)), "close_time", "close time is too far in the future")

	v.Check(validator.Between(len(r.Outcomes), cfg.MinOutcomes, cfg.MaxOutcomes), "outcomes", "wrong number of outcomes")
	for _, name := range r.Outcomes {
		v.Check(validator.NotBlank(name), "outcomes", "outcome names must not be blank")
		v.Check(validator.MaxRunes(name, 100), "outcomes", "outcome names must be at most 100 characters")
	}
	v.Check(validator.NoDuplicatesFold(r.Outcomes), "outcomes", "outcome names must be unique")

	v.Check(len(r.Tags) <= maxTags, "tags", "too many tags")
	for _, tag := range r.Tags {
		v.Check(validator.MaxRunes(tag, maxTagLength), "tags", "tags must be at most 30 characters")
	}

	if r.ImageURL != "" {
		v.Check(validator.IsURL(r.ImageURL), "image_url", "must be a valid URL")
	}
	if r.SourceURL != "" {
		v.Check(validator.IsURL(r.SourceURL), "source_url", "must be a valid URL")
	}

	return v.Valid()
}

// MarketFilters represents filters for market queries
// @Description Filters for searching and listing markets
type MarketFilters struct {
	Status        *models.MarketStatus `form:"status"`
	Category      string               `form:"category"`
	CreatorWallet string               `form:"creator_wallet"`
	Search        string               `form:"search"`
	SortBy        string               `form:"sort_by"`
	SortOrder     string               `form:"sort_order"`
	Page          int                  `form:"page"`
	PerPage       int                  `form:"per_page"`
}

// Normalize applies paging defaults and bounds.
func (f *MarketFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Search = strings.TrimSpace(f.Search)
}

// OutcomeResponse is an outcome with its current price and odds
type OutcomeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	SortOrder   int       `json:"sort_order"`
	Supply      int64     `json:"supply"`
	SpotPrice   float64   `json:"spot_price"`
	Probability float64   `json:"probability"`
	Odds        float64   `json:"odds"`
	MaxBuyable  int64     `json:"max_buyable"`
}

// MarketResponse represents a market in API responses
type MarketResponse struct {
	ID            uuid.UUID             `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Category      string                `json:"category"`
	MarketType    models.MarketType     `json:"market_type"`
	Status        models.MarketStatus   `json:"status"`
	CreatorWallet string                `json:"creator_wallet"`
	CloseTime     time.Time             `json:"close_time"`
	Metadata      models.MarketMetadata `json:"metadata"`
	TotalSupply   int64                 `json:"total_supply"`
	CanTrade      bool                  `json:"can_trade"`
	Outcomes      []OutcomeResponse     `json:"outcomes"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// MarketListResponse represents one page of markets
type MarketListResponse struct {
	Markets []MarketResponse `json:"markets"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// OutcomeOdds is one outcome's entry in an odds snapshot
type OutcomeOdds struct {
	OutcomeID   uuid.UUID `json:"outcome_id"`
	Name        string    `json:"name"`
	Supply      int64     `json:"supply"`
	SpotPrice   float64   `json:"spot_price"`
	Probability float64   `json:"probability"`
	Odds        float64   `json:"odds"`
}

// OddsSnapshot is the odds view of a market at one instant. It is what the
// cache stores and what the stream pushes to subscribers.
type OddsSnapshot struct {
	MarketID       uuid.UUID           `json:"market_id"`
	Status         models.MarketStatus `json:"status"`
	MarginFraction float64             `json:"margin_fraction"`
	Outcomes       []OutcomeOdds       `json:"outcomes"`
	ComputedAt     time.Time           `json:"computed_at"`
}

// OutcomeCurvePoint marks where an outcome currently sits on the curve
type OutcomeCurvePoint struct {
	OutcomeID uuid.UUID `json:"outcome_id"`
	Name      string    `json:"name"`
	Supply    int64     `json:"supply"`
	Price     float64   `json:"price"`
}

// CurveResponse is the price-curve chart data for a market
type CurveResponse struct {
	MarketID  uuid.UUID           `json:"market_id"`
	BasePrice float64             `json:"base_price"`
	MaxPrice  float64             `json:"max_price"`
	MaxSupply int64               `json:"max_supply"`
	Points    []curve.CurvePoint  `json:"points"`
	Outcomes  []OutcomeCurvePoint `json:"outcomes"`
}

// ToMarketResponse converts a market and its odds to the API shape.
func ToMarketResponse(m *models.Market, dist curve.OddsDistribution, engine *curve.Engine) MarketResponse {
	resp := MarketResponse{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Category:      m.Category,
		MarketType:    m.MarketType,
		Status:        m.Status,
		CreatorWallet: m.CreatorWallet,
		CloseTime:     m.CloseTime,
		Metadata:      m.Metadata,
		CanTrade:      m.CanTrade(),
		Outcomes:      make([]OutcomeResponse, len(m.Outcomes)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	for i := range m.Outcomes {
		o := &m.Outcomes[i]
		resp.TotalSupply += o.Supply
		resp.Outcomes[i] = OutcomeResponse{
			ID:          o.ID,
			Name:        o.Name,
			SortOrder:   o.SortOrder,
			Supply:      o.Supply,
			SpotPrice:   engine.PriceAtSupply(float64(o.Supply)),
			Probability: at(dist.Probabilities, i),
			Odds:        at(dist.Odds, i),
			MaxBuyable:  engine.MaxBuyable(float64(o.Supply)),
		}
	}

	return resp
}

// ToOddsSnapshot converts a market and its odds to a snapshot.
func ToOddsSnapshot(m *models.Market, dist curve.OddsDistribution, engine *curve.Engine, margin float64, now time.Time) OddsSnapshot {
	snap := OddsSnapshot{
		MarketID:       m.ID,
		Status:         m.Status,
		MarginFraction: margin,
		Outcomes:       make([]OutcomeOdds, len(m.Outcomes)),
		ComputedAt:     now.UTC(),
	}
	for i := range m.Outcomes {
		o := &m.Outcomes[i]
		snap.Outcomes[i] = OutcomeOdds{
			OutcomeID:   o.ID,
			Name:        o.Name,
			Supply:      o.Supply,
			SpotPrice:   engine.PriceAtSupply(float64(o.Supply)),
			Probability: at(dist.Probabilities, i),
			Odds:        at(dist.Odds, i),
		}
	}
	return snap
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
