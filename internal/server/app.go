// Package server initializes and runs the phonebook server: it opens the
// database, applies migrations, wires services to the HTTP API, and runs
// the gRPC health endpoint and token housekeeping until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/server/cache"
	"github.com/dmitrijs2005/phonebook/internal/server/config"
	"github.com/dmitrijs2005/phonebook/internal/server/httpapi"
	"github.com/dmitrijs2005/phonebook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/phonebook/internal/server/services"
	"github.com/dmitrijs2005/phonebook/internal/server/storage"

	gs "github.com/dmitrijs2005/phonebook/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	statsCache     *cache.RedisStatsCache
	userService    *services.UserService
	profileService *services.ProfileService
	contactService *services.ContactService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	applied, err := rm.RunMigrations(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	if len(applied) > 0 {
		logger.Info(ctx, "Applied migrations", "versions", applied)
	}

	app := &App{config: c, logger: logger, db: db}

	// interface values stay nil unless the backend is configured
	var avatars services.AvatarStore
	if c.AvatarStorageEnabled() {
		s, err := storage.NewS3AvatarStorage(ctx, c)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("avatar storage init error: %w", err)
		}
		avatars = s
	} else {
		logger.Info(ctx, "avatar storage disabled, S3 bucket not configured")
	}

	var statsCache services.StatsCache
	if c.StatsCacheEnabled() {
		rc, err := cache.NewRedisStatsCache(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
		if err != nil {
			// stats still work without the cache
			logger.Warn(ctx, "stats cache disabled", "error", err)
		} else {
			app.statsCache = rc
			statsCache = rc
		}
	}

	app.userService = services.NewUserService(db, rm, c)
	app.profileService = services.NewProfileService(db, rm, avatars, c)
	app.contactService = services.NewContactService(db, rm, statsCache, c, logger)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(httpapi.Options{
		Address:        app.config.HTTPAddr,
		AvatarMaxBytes: app.config.AvatarMaxBytes,
		Users:          app.userService,
		Profiles:       app.profileService,
		Contacts:       app.contactService,
		Health:         app.db.PingContext,
	}, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCHealthAddr, app.logger, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startPurger removes expired refresh tokens every PurgeInterval.
func (app *App) startPurger(ctx context.Context) {
	if app.config.PurgeInterval <= 0 {
		return
	}

	ticker := time.NewTicker(app.config.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.PurgeExpired(ctx)
			if err != nil {
				app.logger.Error(ctx, "refresh token purge failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired refresh tokens", "count", n)
			}
		}
	}
}

// Run blocks until a signal arrives or one of the servers fails, then waits
// for every component to stop and releases connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startPurger(ctx)
	}()

	wg.Wait()

	app.close(context.Background())
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close(ctx context.Context) {
	if app.statsCache != nil {
		if err := app.statsCache.Close(); err != nil {
			app.logger.Warn(ctx, "redis close failed", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
}
