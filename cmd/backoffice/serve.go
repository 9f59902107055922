package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/servicedesk/backoffice/internal/api"
	"github.com/servicedesk/backoffice/internal/core/access"
	"github.com/servicedesk/backoffice/internal/core/service"
	mongodb "github.com/servicedesk/backoffice/internal/infrastructure/db/mongo"
	redisdb "github.com/servicedesk/backoffice/internal/infrastructure/db/redis"
	"github.com/servicedesk/backoffice/internal/infrastructure/http/handlers"
	"github.com/servicedesk/backoffice/internal/infrastructure/navigation"
	"github.com/servicedesk/backoffice/internal/infrastructure/queue"
	"github.com/servicedesk/backoffice/internal/pkg/config"
	"github.com/servicedesk/backoffice/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		File:    cfg.LogFile,
		Service: "backoffice",
	})
	defer logger.Close()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "backoffice",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	clients := mongodb.NewClientRepository(db)
	functionalities := mongodb.NewFunctionalityRepository(db)
	orders := mongodb.NewOrderRepository(db)
	events := mongodb.NewEventRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":           users.EnsureIndexes,
		"clients":         clients.EnsureIndexes,
		"functionalities": functionalities.EnsureIndexes,
		"orders":          orders.EnsureIndexes,
		"order_events":    events.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("indexes %s: %w", name, err)
		}
	}

	audit := service.NewAuditService(events, log)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, audit, log)
	// Workers outlive the signal context so queued events drain on Stop.
	dispatcher.Start(context.WithoutCancel(ctx))

	menu, err := navigation.Load(cfg.Access.MenuFile)
	if err != nil {
		return err
	}
	authz := access.NewAuthorizer(cfg.Access.AdminOverride)

	router := api.NewRouter(api.Deps{
		Logger:        log,
		JWTSecret:     cfg.JWTSecret,
		Authz:         authz,
		FallbackRoute: cfg.Access.FallbackRoute,
		Auth:          service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL),
		Orders: service.NewOrderService(
			orders,
			clients,
			functionalities,
			redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL),
			dispatcher,
			cfg.Billing.IntervalDays,
			log,
		),
		Catalog: service.NewCatalogService(clients, functionalities, log),
		Menu:    service.NewMenuService(menu, authz),
		ReadinessChecks: map[string]handlers.Check{
			"mongo": handlers.MongoCheck(db),
			"redis": handlers.RedisCheck(rdb),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("audit queue did not drain")
	}
	log.Info().Msg("server stopped")
	return nil
}
