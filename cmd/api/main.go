package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ganette57/pumpmarket.fun-sub001/app"
	"github.com/ganette57/pumpmarket.fun-sub001/app/api"
	"github.com/ganette57/pumpmarket.fun-sub001/app/database"
	apiDoc "github.com/ganette57/pumpmarket.fun-sub001/app/doc"
	"github.com/ganette57/pumpmarket.fun-sub001/app/markets"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/cache"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/curve"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/deps"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/nexus"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/router"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/sanitizer"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/stream"
)

const (
	expirySweepInterval = time.Minute
	shutdownTimeout     = 15 * time.Second
)

// @title FunMarket API
// @version 1.0
// @description Bonding-curve pricing, odds and trading for FunMarket prediction markets.

// @contact.name API Support Team

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey WalletAddress
// @in header
// @name X-Wallet-Address
// @description Base58 Solana wallet placing the trade.
func main() {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	log := logger.NewZeroLogger(os.Stdout, logger.LevelInfo, logger.Fields{"service": "funmarket-api"})

	var opts []nexus.LoaderOption
	if file := os.Getenv("CONFIG_FILE"); file != "" {
		opts = append(opts, nexus.WithFileName(file))
	}
	cfg, err := app.LoadConfig(opts...)
	if err != nil {
		log.Fatal(err, logger.Fields{"stage": "config"})
	}
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))

	db, err := database.New(&cfg.DB)
	if err != nil {
		log.Fatal(err, logger.Fields{"stage": "database"})
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(&cfg.DB, cfg.DB.MigrationsPath); err != nil {
			log.Fatal(err, logger.Fields{"stage": "migrate", "path": cfg.DB.MigrationsPath})
		}
	}

	oddsCache, err := cache.New[string](&cfg.Cache)
	if err != nil {
		log.Fatal(err, logger.Fields{"stage": "cache", "backend": cfg.Cache.Backend})
	}

	engine, err := curve.New(&cfg.Curve)
	if err != nil {
		log.Fatal(err, logger.Fields{"stage": "curve"})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := stream.NewHub(log)
	go hub.Run(ctx)

	container := deps.NewContainer(db, engine, hub, sanitizer.NewHTMLStripper(), log, oddsCache)
	defer func() {
		if err := container.Close(); err != nil {
			log.Error(err, logger.Fields{"stage": "shutdown"})
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(api.RequestID(), api.RequestLogger(log), api.Recovery(log), api.CorsMiddleware())

	v1 := router.NewMounter(container).Public(r).Mount(
		app.MountMarkets(&cfg.Markets),
		app.MountTrading(&cfg.Trading),
	)
	v1.RouterGroup().GET("/healthz", api.HealthCheck(cfg.Env, cfg.Version, healthDeps(container)))
	apiDoc.Init(r, cfg.Env)

	if svc, ok := container.GetService(deps.MarketsService).(markets.Service); ok {
		go sweepExpiredMarkets(ctx, svc, log)
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting FunMarket API server", logger.Fields{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.Fields{"stage": "listen"})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Fields{"stage": "shutdown"})
	}
}

func healthDeps(c *deps.Container) map[string]api.Pinger {
	checks := map[string]api.Pinger{
		"database": api.PingFunc(func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if p, ok := c.Cache.(api.Pinger); ok {
		checks["cache"] = p
	}
	return checks
}

// sweepExpiredMarkets closes open markets whose close time has passed.
func sweepExpiredMarkets(ctx context.Context, svc markets.Service, log logger.Logger) {
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			closed, err := svc.CloseExpiredMarkets(ctx)
			if err != nil {
				log.Error(err, logger.Fields{"job": "close_expired_markets"})
				continue
			}
			if closed > 0 {
				log.Info("closed expired markets", logger.Fields{"count": closed})
			}
		}
	}
}
