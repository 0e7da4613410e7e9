package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/odyssey-tasks/internal/app"
	"github.com/odyssey-erp/odyssey-tasks/internal/auth"
	"github.com/odyssey-erp/odyssey-tasks/internal/observability"
	"github.com/odyssey-erp/odyssey-tasks/internal/platform/cache"
	"github.com/odyssey-erp/odyssey-tasks/internal/platform/db"
	"github.com/odyssey-erp/odyssey-tasks/internal/tasks"
	"github.com/odyssey-erp/odyssey-tasks/internal/users"
)

// stores bundles the repositories for the selected driver.
type stores struct {
	users  users.Repository
	tasks  tasks.Repository
	health app.HealthCheck
	close  func()
}

func openStores(ctx context.Context, cfg *app.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case app.StoreDriverRedis:
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:  users.NewRedisRepository(client),
			tasks:  tasks.NewRedisRepository(client),
			health: func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close: func() {
				if err := client.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			},
		}, nil
	default:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &stores{
			users:  users.NewRepository(pool),
			tasks:  tasks.NewRepository(pool),
			health: pool.Ping,
			close:  pool.Close,
		}, nil
	}
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}
	if err := run(); err != nil {
		slog.Default().Error("odyssey exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer st.close()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(st.users, auth.NewBcryptHasher(cfg.BcryptCost), issuer)
	taskService := tasks.NewService(st.tasks)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		AuthHandler:  auth.NewHandler(logger, authService),
		TasksHandler: tasks.NewHandler(logger, taskService, auth.NewGate(issuer, logger)),
		Metrics:      observability.NewMetrics(),
		Health:       st.health,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("store", cfg.StoreDriver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
