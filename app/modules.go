package app

import (
	"github.com/ganette57/pumpmarket.fun-sub001/app/markets"
	"github.com/ganette57/pumpmarket.fun-sub001/app/trading"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/deps"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/router"
	"github.com/gin-gonic/gin"
)

// MountMarkets mounts the markets module and registers its service.
func MountMarkets(cfg *markets.Config) router.MountFunc {
	return func(r *gin.RouterGroup, c *deps.Container) {
		d := markets.Dependencies{
			DB:        c.DB,
			Config:    cfg,
			Engine:    c.Engine,
			Cache:     c.Cache,
			Sanitizer: c.Sanitizer,
			Logger:    c.Logger,
		}
		if c.Hub != nil {
			d.Stream = c.Hub
		}
		c.RegisterService(deps.MarketsService, markets.Init(r, d))
	}
}

// MountTrading mounts the trading module. It must run after MountMarkets so
// executed trades refresh the market's odds.
func MountTrading(cfg *trading.Config) router.MountFunc {
	return func(r *gin.RouterGroup, c *deps.Container) {
		odds, _ := c.GetService(deps.MarketsService).(markets.OddsRefresher)
		if odds == nil {
			c.Logger.Warn("trading mounted without markets, odds will not refresh after trades", nil)
		}
		c.RegisterService(deps.TradingService, trading.Init(r, trading.Dependencies{
			DB:     c.DB,
			Config: cfg,
			Engine: c.Engine,
			Odds:   odds,
			Logger: c.Logger,
		}))
	}
}
