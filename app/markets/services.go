package markets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/internal/cache"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/stream"
	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OddsCacheKey is the cache key of a market's odds snapshot.
func OddsCacheKey(marketID uuid.UUID) string {
	return "odds:" + marketID.String()
}

// service implements the Service interface
type service struct {
	repo   Repository
	config *Config
	engine *curve.Engine
	odds   *cache.Versioned[OddsSnapshot]
	stream OddsStream
	log    logger.Logger
	now    func() time.Time
}

// NewService creates a new market service. odds and events may be nil.
func NewService(repo Repository, config *Config, engine *curve.Engine, odds cache.Cache[OddsSnapshot], events OddsStream, log logger.Logger) Service {
	if log == nil {
		log = logger.NewNullLogger()
	}
	s := &service{
		repo:   repo,
		config: config,
		engine: engine,
		stream: events,
		log:    log,
		now:    time.Now,
	}
	if odds != nil {
		s.odds = cache.NewVersioned(odds)
	}
	return s
}

// CreateMarket stores a validated request as an open market with all supplies at zero
func (s *service) CreateMarket(ctx context.Context, req *CreateMarketRequest) (*MarketResponse, error) {
	market := &models.Market{
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Category:      req.Category,
		MarketType:    models.MarketTypeForOutcomes(len(req.Outcomes)),
		Status:        models.MarketStatusOpen,
		CreatorWallet: req.CreatorWallet,
		CloseTime:     req.CloseTime.UTC(),
		Metadata: models.MarketMetadata{
			Tags:      req.Tags,
			ImageURL:  req.ImageURL,
			SourceURL: req.SourceURL,
		},
	}

	if len(req.Outcomes) < s.config.MinOutcomes || len(req.Outcomes) > s.config.MaxOutcomes {
		return nil, models.ErrInvalidOutcomeCount
	}

	if err := market.Validate(); err != nil {
		return nil, err
	}

	market.Outcomes = make([]models.MarketOutcome, len(req.Outcomes))
	for i, name := range req.Outcomes {
		market.Outcomes[i] = models.MarketOutcome{
			Name:      strings.TrimSpace(name),
			SortOrder: i + 1,
			Supply:    0,
		}
	}

	if err := s.repo.Create(ctx, market); err != nil {
		return nil, fmt.Errorf("failed to create market: %w", err)
	}

	s.log.Info("market created", logger.Fields{
		"market_id": market.ID.String(),
		"outcomes":  len(market.Outcomes),
		"creator":   market.CreatorWallet,
	})

	return s.toResponse(market)
}

// GetMarket returns a market with each outcome's spot price, probability and odds
func (s *service) GetMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error) {
	market, err := s.findMarket(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(market)
}

// ListMarkets returns a page of markets
func (s *service) ListMarkets(ctx context.Context, filters *MarketFilters) (*MarketListResponse, error) {
	if filters == nil {
		filters = &MarketFilters{}
	}
	filters.Normalize()

	markets, total, err := s.repo.GetAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch markets: %w", err)
	}

	list := make([]MarketResponse, 0, len(markets))
	for i := range markets {
		resp, err := s.toResponse(&markets[i])
		if err != nil {
			return nil, err
		}
		list = append(list, *resp)
	}

	return &MarketListResponse{
		Markets: list,
		Total:   total,
		Page:    filters.Page,
		PerPage: filters.PerPage,
	}, nil
}

// GetOdds returns the market's odds snapshot, memoized for OddsCacheTTL
func (s *service) GetOdds(ctx context.Context, id uuid.UUID) (*OddsSnapshot, error) {
	if s.odds == nil || s.config.OddsCacheTTL <= 0 {
		return s.loadOdds(ctx, id)
	}

	snap, err := cache.GetOrLoadVersioned(ctx, s.odds, OddsCacheKey(id), s.config.OddsCacheTTL,
		func(ctx context.Context) (OddsSnapshot, error) {
			snap, err := s.loadOdds(ctx, id)
			if err != nil {
				return OddsSnapshot{}, err
			}
			return *snap, nil
		})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// RefreshOdds drops the cached snapshot, recomputes it from the stored
// supplies and publishes it on the market's stream topic. Snapshots loaded
// before the invalidation, by readers or by an earlier refresh, are never
// written back over it.
func (s *service) RefreshOdds(ctx context.Context, id uuid.UUID) (*OddsSnapshot, error) {
	key := OddsCacheKey(id)
	var version uint64
	if s.odds != nil {
		v, err := s.odds.Invalidate(ctx, key)
		if err != nil {
			s.log.Warn("failed to invalidate odds cache", logger.Fields{"key": key, "error": err.Error()})
		}
		version = v
	}

	snap, err := s.loadOdds(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.odds != nil && s.config.OddsCacheTTL > 0 {
		stored, err := s.odds.SetIfVersion(ctx, key, version, *snap, s.config.OddsCacheTTL)
		if err != nil {
			s.log.Warn("failed to cache odds", logger.Fields{"key": key, "error": err.Error()})
		} else if !stored {
			s.log.Debug("newer odds refresh in flight", logger.Fields{"key": key})
		}
	}

	if s.stream != nil {
		if err := s.stream.PublishJSON(stream.MarketTopic(id.String()), snap); err != nil {
			s.log.Error(err, logger.Fields{"market_id": id.String(), "op": "publish odds"})
		}
	}

	return snap, nil
}

// GetPriceCurve samples the shared price curve and marks each outcome's position on it
func (s *service) GetPriceCurve(ctx context.Context, id uuid.UUID) (*CurveResponse, error) {
	market, err := s.findMarket(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := s.engine.Config()
	resp := &CurveResponse{
		MarketID:  market.ID,
		BasePrice: cfg.BasePrice,
		MaxPrice:  cfg.MaxPrice,
		MaxSupply: cfg.MaxSupply,
		Points:    s.engine.SampleCurve(s.config.CurveSamplePoints),
		Outcomes:  make([]OutcomeCurvePoint, len(market.Outcomes)),
	}
	for i := range market.Outcomes {
		o := &market.Outcomes[i]
		resp.Outcomes[i] = OutcomeCurvePoint{
			OutcomeID: o.ID,
			Name:      o.Name,
			Supply:    o.Supply,
			Price:     s.engine.PriceAtSupply(float64(o.Supply)),
		}
	}
	return resp, nil
}

// CloseMarket stops trading on an open market
func (s *service) CloseMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error) {
	market, err := s.findMarket(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := market.Close(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, market.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to close market: %w", err)
	}

	s.log.Info("market closed", logger.Fields{"market_id": id.String()})

	if _, err := s.RefreshOdds(ctx, id); err != nil {
		s.log.Warn("failed to refresh odds after close", logger.Fields{"market_id": id.String(), "error": err.Error()})
	}

	return s.toResponse(market)
}

// CloseExpiredMarkets closes every open market past its close time and
// returns how many were closed
func (s *service) CloseExpiredMarkets(ctx context.Context) (int, error) {
	ids, err := s.repo.CloseExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to close expired markets: %w", err)
	}

	for _, id := range ids {
		if _, err := s.RefreshOdds(ctx, id); err != nil {
			s.log.Warn("failed to refresh odds after close", logger.Fields{"market_id": id.String(), "error": err.Error()})
		}
	}

	if len(ids) > 0 {
		s.log.Info("expired markets closed", logger.Fields{"count": len(ids)})
	}
	return len(ids), nil
}

func (s *service) findMarket(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	market, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to fetch market: %w", err)
	}
	return market, nil
}

func (s *service) loadOdds(ctx context.Context, id uuid.UUID) (*OddsSnapshot, error) {
	market, err := s.findMarket(ctx, id)
	if err != nil {
		return nil, err
	}

	dist, err := s.engine.ComputeOdds(market.Supplies(), s.config.MarginFraction)
	if err != nil {
		return nil, fmt.Errorf("failed to compute odds: %w", err)
	}

	snap := ToOddsSnapshot(market, dist, s.engine, s.config.MarginFraction, s.now())
	return &snap, nil
}

func (s *service) toResponse(market *models.Market) (*MarketResponse, error) {
	var dist curve.OddsDistribution
	if len(market.Outcomes) > 0 {
		d, err := s.engine.ComputeOdds(market.Supplies(), s.config.MarginFraction)
		if err != nil {
			return nil, fmt.Errorf("failed to compute odds: %w", err)
		}
		dist = d
	}

	resp := ToMarketResponse(market, dist, s.engine)
	return &resp, nil
}
