// @title        Bookstore API
// @version      1.0
// @description  Storefront and admin API for the online bookstore.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/api"
	"github.com/bookhive/bookstore-api/internal/core/ports"
	"github.com/bookhive/bookstore-api/internal/core/service"
	"github.com/bookhive/bookstore-api/internal/infrastructure/db/memory"
	mongodb "github.com/bookhive/bookstore-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bookhive/bookstore-api/internal/infrastructure/db/redis"
	"github.com/bookhive/bookstore-api/internal/infrastructure/http/handlers"
	"github.com/bookhive/bookstore-api/internal/pkg/config"
	"github.com/bookhive/bookstore-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users     ports.UserRepository
	books     ports.BookRepository
	events    ports.RoleEventRepository
	purchases ports.PurchaseRepository
	dedup     service.DedupChecker
	health    []handlers.Dependency
	close     func(context.Context)
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "bookstore-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}

	if cfg.Auth.AdminSecret == "" {
		log.Warn().Msg("ADMIN_SECRET_KEY is empty; admin signup by secret is disabled")
	}

	e := api.NewRouter(api.Deps{
		Auth: service.NewAuthService(repos.users, repos.events, service.AuthConfig{
			JWTSecret:   cfg.Auth.JWTSecret,
			TokenTTL:    cfg.Auth.TokenTTL,
			AdminSecret: cfg.Auth.AdminSecret,
			BcryptCost:  cfg.Auth.BcryptCost,
		}, log),
		Users:     service.NewUserService(repos.users, repos.events, log),
		Books:     service.NewBookService(repos.books, repos.users, log),
		Purchases: service.NewPurchaseService(repos.books, repos.purchases, repos.users, repos.dedup, log),
		UserStore: repos.users,
		JWTSecret: cfg.Auth.JWTSecret,
		Logger:    log,
		Health:    repos.health,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	repos.close(shutdownCtx)
	log.Info().Msg("stopped")
}

func openRepositories(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.StoreBackend == "memory" {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:     store.Users(),
			books:     store.Books(),
			events:    store.RoleEvents(),
			purchases: store.Purchases(),
			dedup:     store.Dedup(time.Hour),
			close:     func(context.Context) {},
		}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	return &repositories{
		users:     mongodb.NewUserRepository(db),
		books:     mongodb.NewBookRepository(db),
		events:    mongodb.NewRoleEventRepository(db),
		purchases: mongodb.NewPurchaseRepository(db),
		dedup:     redisdb.NewDedupChecker(rdb),
		health:    []handlers.Dependency{mongodb.Pinger{Client: client}, redisdb.Pinger{Client: rdb}},
		close: func(ctx context.Context) {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("redis close")
			}
			if err := client.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}
