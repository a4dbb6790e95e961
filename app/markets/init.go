package markets

import (
	"github.com/ganette57/pumpmarket.fun-sub001/internal/cache"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/sanitizer"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies represents the dependencies needed for the markets module
type Dependencies struct {
	DB        *gorm.DB
	Config    *Config
	Engine    *curve.Engine
	Cache     cache.Cache[string]
	Stream    OddsStream
	Sanitizer sanitizer.HTMLStripperer
	Logger    logger.Logger
}

// Init initializes the markets module, mounts its routes and returns the
// service so other modules can refresh odds after trades
func Init(r *gin.RouterGroup, deps Dependencies) Service {
	config := deps.Config
	if config == nil {
		config = GetDefaultConfig()
	}

	if err := config.Validate(); err != nil {
		panic("Invalid markets configuration: " + err.Error())
	}

	engine := deps.Engine
	if engine == nil {
		engine = curve.MustNew(curve.GetDefaultConfig())
	}

	var odds cache.Cache[OddsSnapshot]
	if deps.Cache != nil {
		odds = cache.NewJSON[OddsSnapshot](deps.Cache)
	}

	repo := NewRepository(deps.DB)
	srvs := NewService(repo, config, engine, odds, deps.Stream, deps.Logger)
	handler := NewHandler(srvs, config, deps.Sanitizer, deps.Stream, deps.Logger)

	marketsGroup := r.Group("/markets")
	marketsGroup.GET("", handler.ListMarkets)
	marketsGroup.POST("", handler.CreateMarket)
	marketsGroup.GET("/:id", handler.GetMarket)
	marketsGroup.GET("/:id/odds", handler.GetOdds)
	marketsGroup.GET("/:id/curve", handler.GetPriceCurve)
	marketsGroup.POST("/:id/close", handler.CloseMarket)
	if deps.Stream != nil {
		marketsGroup.GET("/:id/stream", handler.StreamOdds)
	}

	return srvs
}
