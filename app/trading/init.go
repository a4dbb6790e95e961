package trading

import (
	"github.com/ganette57/pumpmarket.fun-sub001/app/markets"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies represents the dependencies needed for the trading module
type Dependencies struct {
	DB     *gorm.DB
	Config *Config
	Engine *curve.Engine
	Odds   markets.OddsRefresher
	Logger logger.Logger
}

// Init initializes the trading module and mounts its routes
func Init(r *gin.RouterGroup, deps Dependencies) Service {
	config := deps.Config
	if config == nil {
		config = GetDefaultConfig()
	}

	if err := config.Validate(); err != nil {
		panic("Invalid trading configuration: " + err.Error())
	}

	engine := deps.Engine
	if engine == nil {
		engine = curve.MustNew(curve.GetDefaultConfig())
	}

	repo := NewRepository(deps.DB)
	guard := NewGuard(config, repo)
	srvs := NewService(deps.DB, repo, config, engine, guard, deps.Odds, deps.Logger)
	handler := NewHandler(srvs, config, deps.Logger)

	tradesGroup := r.Group("/trades")
	tradesGroup.GET("", handler.ListTrades)
	tradesGroup.POST("/quote", handler.Quote)
	tradesGroup.POST("/buy", handler.Buy)
	tradesGroup.POST("/sell", handler.Sell)

	r.GET("/wallets/:wallet/positions", handler.GetPositions)

	return srvs
}
