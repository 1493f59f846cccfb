// Package app wires configuration, storage, the initialization gate and the
// HTTP router into one runnable unit shared by the server and lambda binaries.
package app

import (
	"context"
	"errors"
	"fmt"

	"todo_api/internal/auth"
	"todo_api/internal/bootstrap"
	"todo_api/internal/config"
	"todo_api/internal/db"
	"todo_api/internal/events"
	httpServer "todo_api/internal/http"
	"todo_api/internal/logger"
	"todo_api/internal/migrate"
	"todo_api/internal/repository"
	"todo_api/internal/service"
	"todo_api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	Gate   *bootstrap.Gate
	Pool   *pgxpool.Pool

	redis *redis.Client
	hub   *ws.Hub
	kafka *events.KafkaPublisher
}

// Build connects to the backing services and assembles the router. It does
// not run migrations; callers decide between eager and lazy initialization.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, err
	}

	runner, err := migrate.NewEmbeddedRunner(pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	a := &App{
		Config: cfg,
		Pool:   pool,
		Gate:   bootstrap.NewGate(runner, bootstrap.WithTimeout(cfg.MigrationTimeout)),
		redis:  db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
	}

	var opts []service.Option
	if a.redis != nil && cfg.CacheTTL > 0 {
		opts = append(opts, service.WithCache(repository.NewRedisTodoCache(a.redis, cfg.CacheTTL)))
	}

	var sinks events.Fanout
	// a lambda invocation cannot hold a websocket open
	if !cfg.Serverless() {
		a.hub = ws.NewHub()
		sinks = append(sinks, a.hub)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic != "" {
		a.kafka = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, a.kafka)
		logger.Info("kafka events enabled", "topic", cfg.KafkaTopic)
	}
	if len(sinks) > 0 {
		opts = append(opts, service.WithPublisher(sinks))
	}

	var issuer *auth.Issuer
	if cfg.JWTSecret != "" {
		issuer = auth.NewIssuer(cfg.JWTSecret)
	}

	todos := service.NewTodoService(repository.NewTodoRepository(pool), opts...)

	a.Router = httpServer.NewRouter(httpServer.Deps{
		Todos:              todos,
		Gate:               a.Gate,
		DB:                 pool,
		Redis:              a.redis,
		Hub:                a.hub,
		Issuer:             issuer,
		RateLimit:          cfg.APIRateLimit,
		RateWindow:         cfg.APIRateWindow,
		AllowedOrigin:      cfg.AllowedOrigin,
		Version:            cfg.Version,
		ExposeErrorDetails: cfg.ExposeErrorDetails,
	})

	return a, nil
}

// Close releases everything Build opened
func (a *App) Close() error {
	var errs []error
	if a.hub != nil {
		a.hub.Close()
	}
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	a.Pool.Close()
	return errors.Join(errs...)
}
