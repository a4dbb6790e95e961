package app

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ganette57/pumpmarket.fun-sub001/app/markets"
	"github.com/ganette57/pumpmarket.fun-sub001/app/trading"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/cache"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/deps"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/router"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/sanitizer"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/stream"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newContainer(t *testing.T, hub *stream.Hub) *deps.Container {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	log := logger.NewNullLogger()
	return deps.NewContainer(gormDB, curve.MustNew(curve.GetDefaultConfig()), hub,
		sanitizer.NewHTMLStripper(), log, cache.NewMemoryCache[string]())
}

func routeSet(engine *gin.Engine) map[string]bool {
	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	return routes
}

func TestMountModules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container := newContainer(t, stream.NewHub(logger.NewNullLogger()))
	engine := gin.New()

	router.NewMounter(container).Public(engine).Mount(
		MountMarkets(markets.GetDefaultConfig()),
		MountTrading(trading.GetDefaultConfig()),
	)

	_, ok := container.GetService(deps.MarketsService).(markets.Service)
	assert.True(t, ok)
	_, ok = container.GetService(deps.TradingService).(trading.Service)
	assert.True(t, ok)

	routes := routeSet(engine)
	for _, want := range []string{
		"GET /api/v1/markets",
		"POST /api/v1/markets",
		"GET /api/v1/markets/:id/odds",
		"GET /api/v1/markets/:id/curve",
		"GET /api/v1/markets/:id/stream",
		"POST /api/v1/trades/quote",
		"POST /api/v1/trades/buy",
		"POST /api/v1/trades/sell",
		"GET /api/v1/wallets/:wallet/positions",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestMountMarkets_WithoutHub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container := newContainer(t, nil)
	engine := gin.New()

	router.NewMounter(container).Public(engine).Mount(MountMarkets(nil))

	routes := routeSet(engine)
	assert.True(t, routes["GET /api/v1/markets/:id/odds"])
	assert.False(t, routes["GET /api/v1/markets/:id/stream"])
}

func TestMountTrading_WithoutMarkets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container := newContainer(t, nil)

	router.NewMounter(container).Public(gin.New()).Mount(MountTrading(nil))
	assert.NotNil(t, container.GetService(deps.TradingService))
}
