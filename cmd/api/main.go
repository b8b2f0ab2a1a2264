// @title           Inventory API
// @version         1.0
// @description     Product catalog, orders and JWT authentication with role-based access.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/inventory-api/internal/api"
	"github.com/99minutos/inventory-api/internal/api/handler"
	"github.com/99minutos/inventory-api/internal/api/middleware"
	"github.com/99minutos/inventory-api/internal/core/service"
	mongodb "github.com/99minutos/inventory-api/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/inventory-api/internal/infrastructure/db/redis"
	"github.com/99minutos/inventory-api/internal/infrastructure/queue"
	"github.com/99minutos/inventory-api/internal/pkg/config"
	"github.com/99minutos/inventory-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("config")
	}

	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	store, err := mongodb.Connect(ctx, mongodb.Config{
		URI:           cfg.Mongo.URI,
		Database:      cfg.Mongo.Database,
		Timeout:       cfg.Mongo.ConnectTimeout,
		SocketTimeout: cfg.Mongo.SocketTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb unavailable")
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongodb indexes")
	}

	health := []handler.DependencyCheck{{Name: "mongodb", Ping: store.Ping}}

	var limiter middleware.WindowCounter
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	switch {
	case err != nil && cfg.RateLimitActive():
		log.Warn().Err(err).Msg("redis unavailable, rate limiting falls back to process memory")
		limiter = middleware.NewMemoryWindow("ratelimit")
	case err != nil:
		log.Warn().Err(err).Msg("redis unavailable")
	default:
		defer rdb.Close()
		health = append(health, handler.DependencyCheck{Name: "redis", Ping: redisdb.Pinger(rdb)})
		if cfg.RateLimitActive() {
			limiter = redisdb.NewFixedWindow(rdb, "ratelimit")
		}
	}

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, mongodb.NewAuditRepository(store), log)
	dispatcher.Start(context.WithoutCancel(ctx))

	// --- Core ---
	users := mongodb.NewUserRepository(store)
	products := mongodb.NewProductRepository(store)
	orders := mongodb.NewOrderRepository(store)

	tokens := service.NewTokenService(cfg.TokenSecret(log), cfg.TokenTTL)

	e := api.NewRouter(api.Dependencies{
		Logger:      log,
		Auth:        service.NewAuthService(users, tokens, cfg.BcryptCost, dispatcher, log),
		Products:    service.NewProductService(products, dispatcher, log),
		Orders:      service.NewOrderService(orders, products, dispatcher, log),
		Tokens:      tokens,
		Users:       users,
		RateLimiter: limiter,
		Health:      health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("inventory api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	dispatcher.Close()
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}

	log.Info().Msg("inventory api stopped")
}
