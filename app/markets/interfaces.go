package markets

import (
	"context"
	"net/http"

	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/google/uuid"
)

// Repository defines the interface for market data access
type Repository interface {
	GetAll(ctx context.Context, filters *MarketFilters) ([]models.Market, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Market, error)
	Create(ctx context.Context, market *models.Market) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.MarketStatus) error
	CloseExpired(ctx context.Context) ([]uuid.UUID, error)
}

// Service defines the interface for market business logic
type Service interface {
	CreateMarket(ctx context.Context, req *CreateMarketRequest) (*MarketResponse, error)
	GetMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error)
	ListMarkets(ctx context.Context, filters *MarketFilters) (*MarketListResponse, error)
	GetOdds(ctx context.Context, id uuid.UUID) (*OddsSnapshot, error)
	GetPriceCurve(ctx context.Context, id uuid.UUID) (*CurveResponse, error)
	CloseMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error)
	CloseExpiredMarkets(ctx context.Context) (int, error)
	OddsRefresher
}

// OddsRefresher recomputes a market's odds after its supplies changed,
// replacing the cached snapshot and pushing it to stream subscribers.
type OddsRefresher interface {
	RefreshOdds(ctx context.Context, id uuid.UUID) (*OddsSnapshot, error)
}

// OddsStream is the subset of the stream hub the module uses.
type OddsStream interface {
	PublishJSON(topic string, v interface{}) error
	ServeWS(w http.ResponseWriter, r *http.Request, topic string, initial []byte) error
}
