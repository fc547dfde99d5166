package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	libdb "timetrack/backend/libs/db"
	libredis "timetrack/backend/libs/redis"
	"timetrack/backend/services/timetracker-service/internal/config"
	httpserver "timetrack/backend/services/timetracker-service/internal/http"
	"timetrack/backend/services/timetracker-service/internal/http/handlers"
	"timetrack/backend/services/timetracker-service/internal/http/middleware"
	redisstore "timetrack/backend/services/timetracker-service/internal/redis"
	"timetrack/backend/services/timetracker-service/internal/repository"
	"timetrack/backend/services/timetracker-service/internal/repository/postgres"
	"timetrack/backend/services/timetracker-service/internal/repository/sqlite"
	"timetrack/backend/services/timetracker-service/internal/service"
	"timetrack/backend/services/timetracker-service/internal/timezone"
	"timetrack/backend/services/timetracker-service/internal/ws"
)

// App wires timetracker-service dependencies.
type App struct {
	service     *service.LifecycleService
	server      *httpserver.Server
	hub         *ws.Hub
	store       repository.Store
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph. The schema is created if missing,
// or dropped and recreated when database.resetOnStart is set.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	loc, err := timezone.Resolve(cfg.Timezone.Name)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Database.ResetOnStart {
		logger.Warn("resetting database schema", zap.String("driver", cfg.Database.Driver))
		err = store.Reset(ctx)
	} else {
		err = store.Migrate(ctx)
	}
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}

	var (
		redisClient *redis.Client
		activeCache service.ActiveSessionCache
	)
	if cfg.Redis.Enabled {
		redisClient, err = libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			store.Close()
			return nil, err
		}
		activeCache = redisstore.NewStore(redisClient, cfg.ActiveSessionTTL())
	}

	hub := ws.NewHub(0, logger)
	clock := timezone.NewClock(loc)
	lifecycle := service.NewLifecycleService(store, activeCache, hub, clock, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Pages:       handlers.NewPagesHandlers(lifecycle, logger),
		Projects:    handlers.NewProjectsHandlers(lifecycle, logger),
		Sessions:    handlers.NewSessionsHandlers(lifecycle, logger),
		SessionFeed: ws.NewServer(hub, 0, logger).HandleWS,
		Health:      handlers.NewHealthHandler(),
	})
	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(logger),
		middleware.RecoveryMiddleware(logger),
	)

	return &App{
		service:     lifecycle,
		server:      server,
		hub:         hub,
		store:       store,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// OpenStore connects the store selected by database.driver.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := libdb.NewPostgresPool(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(pool), nil
	case config.DriverSQLite, "":
		sqlDB, err := libdb.NewSQLiteDB(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(sqlDB), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Service exposes the lifecycle service for command-line use.
func (a *App) Service() *service.LifecycleService {
	return a.service
}

// Run serves HTTP and the live feed until ctx is done.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.hub.Start(ctx)
		return nil
	})
	g.Go(func() error {
		return a.server.Run(ctx)
	})
	return g.Wait()
}

// Close releases resources.
func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close store", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
