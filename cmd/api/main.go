package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lewkins/storefront-api/internal/api"
	"github.com/lewkins/storefront-api/internal/api/handler"
	"github.com/lewkins/storefront-api/internal/core/ports"
	"github.com/lewkins/storefront-api/internal/core/service"
	"github.com/lewkins/storefront-api/internal/infrastructure/config"
	"github.com/lewkins/storefront-api/internal/infrastructure/db/memory"
	mongodb "github.com/lewkins/storefront-api/internal/infrastructure/db/mongo"
	redisdb "github.com/lewkins/storefront-api/internal/infrastructure/db/redis"
	"github.com/lewkins/storefront-api/internal/infrastructure/queue"
	"github.com/lewkins/storefront-api/internal/infrastructure/seed"
	"github.com/lewkins/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Lewkins Storefront API
// @version         1.0
// @description     Catalog, accounts and orders for the Lewkins storefront and admin console.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "storefront-api",
		Env:     cfg.Env,
	})

	health := make(map[string]handler.Pinger)

	// In-memory history is written inline; MongoDB writes go through the dispatcher.
	var (
		events     ports.OrderEventRepository = memory.NewOrderEventRepository()
		publisher  ports.OrderEventPublisher
		dispatcher *queue.Dispatcher
	)
	if cfg.Mongo.URI != "" {
		store, err := mongodb.Open(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer disconnect(log, "mongodb", store.Close)

		repo := mongodb.NewOrderEventRepository(store.DB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create order event indexes")
		}
		events = repo
		health["mongodb"] = repo

		dispatcher = queue.NewDispatcher(cfg.Orders.AuditWorkers, repo, logger.Component("audit"))
		dispatcher.Start(ctx)
		publisher = dispatcher
		log.Info().Str("database", cfg.Mongo.Database).Msg("order events stored in mongodb")
	}

	var idempotency ports.IdempotencyStore = memory.NewIdempotencyStore()
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Open(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer disconnect(log, "redis", func(context.Context) error { return client.Close() })

		store := redisdb.NewIdempotencyStore(client)
		idempotency = store
		health["redis"] = store
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys stored in redis")
	}

	users := memory.NewUserRepository()
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := service.NewAuthService(users, tokens, logger.Component("auth"))
	productSvc := service.NewProductService(memory.NewProductRepository(), logger.Component("catalog"))
	orderSvc := service.NewOrderService(memory.NewOrderRepository(), events, publisher, service.OrderOptions{
		ShippingCost:    cfg.Orders.ShippingCost,
		TaxRate:         cfg.Orders.TaxRate,
		Idempotency:     idempotency,
		IdempotencyTTL:  cfg.Orders.IdempotencyTTL,
		IdempotencyWait: cfg.Orders.IdempotencyWait,
	}, logger.Component("orders"))

	if cfg.SeedDemoData {
		if err := seed.Load(ctx, authSvc, productSvc, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	e := api.NewRouter(api.Deps{
		Auth:        authSvc,
		Products:    productSvc,
		Orders:      orderSvc,
		Tokens:      tokens,
		Users:       users,
		Health:      health,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront backend starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if dispatcher != nil {
		dispatcher.Wait()
	}
	log.Info().Msg("stopped")
}

func disconnect(log zerolog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn().Err(err).Str("backend", name).Msg("disconnect failed")
	}
}
