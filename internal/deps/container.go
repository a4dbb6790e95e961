package deps

import (
	"errors"

	"github.com/ganette57/pumpmarket.fun-sub001/internal/cache"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/sanitizer"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/stream"
	"gorm.io/gorm"
)

// Service keys modules register under so later modules can reach them
// without importing each other's wiring.
const (
	MarketsService = "markets"
	TradingService = "trading"
)

// Container holds all shared dependencies
type Container struct {
	DB        *gorm.DB
	Engine    *curve.Engine
	Hub       *stream.Hub
	Sanitizer sanitizer.HTMLStripperer
	Logger    logger.Logger
	Cache     cache.Cache[string]

	services map[string]interface{}
}

func NewContainer(db *gorm.DB, engine *curve.Engine, hub *stream.Hub, sanitizer sanitizer.HTMLStripperer, log logger.Logger, c cache.Cache[string]) *Container {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Container{
		DB:        db,
		Engine:    engine,
		Hub:       hub,
		Sanitizer: sanitizer,
		Logger:    log,
		Cache:     c,
		services:  make(map[string]interface{}),
	}
}

// RegisterService stores a service with a key
func (c *Container) RegisterService(key string, service interface{}) {
	c.services[key] = service
}

// GetService retrieves a service by key
func (c *Container) GetService(key string) interface{} {
	return c.services[key]
}

// Close releases the cache and the database pool.
func (c *Container) Close() error {
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
