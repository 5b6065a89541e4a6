package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"sqlpager/internal/adapter/scheduler"
	"sqlpager/internal/config"
	"sqlpager/internal/platform/logger"
	"sqlpager/internal/platform/sqlite"
	"sqlpager/pkg/dialect"
	"sqlpager/pkg/pager"
)

const shutdownTimeout = 5 * time.Second

// App wires application components.
type App struct {
	cfg config.Config
	log *slog.Logger
}

// New creates a new App instance and loads configuration.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "sqlpager",
	})
	return &App{cfg: cfg, log: log}, nil
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	defer func() { _ = logger.Close(a.log) }()
	a.log.Info("starting", slog.String("addr", a.cfg.HTTP.Addr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := config.LoadCatalog(a.cfg.CatalogFile)
	if err != nil {
		return err
	}
	if a.cfg.MigrationsDir != "" {
		if err := migrateCatalog(cat, a.cfg.MigrationsDir, a.log); err != nil {
			return err
		}
	}

	store := dialect.NewStore(dialect.WithDefaultParameterFormat(a.cfg.DefaultParameterFormat))
	p := pager.New(pager.WithStore(store), pager.WithLogger(a.log))

	catalog := newCatalogHolder(cat)
	conns := newConnSet(p, catalog, a.log)
	defer func() {
		if err := conns.Close(); err != nil {
			a.log.Warn("close connections", slog.Any("err", err))
		}
	}()

	go a.watchCatalog(ctx, catalog, conns)

	if a.cfg.HealthSchedule != "" {
		sched := scheduler.NewWithContext(ctx, scheduler.Config{Logger: a.log})
		if _, err := sched.AddJob(a.cfg.HealthSchedule, healthJob(conns, a.log), scheduler.JobOptions{
			Name:          "connection-health",
			Timeout:       30 * time.Second,
			OverlapPolicy: scheduler.SkipIfRunning,
		}); err != nil {
			return fmt.Errorf("health schedule: %w", err)
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = sched.Stop(stopCtx)
		}()
	}

	if a.cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	api := &server{catalog: catalog, conns: conns, log: a.log}
	if a.cfg.HTTP.RateInterval > 0 {
		api.limiter = newRateLimiter(a.cfg.HTTP.RateInterval)
	}
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           newRouter(api),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.log.Error("server", slog.Any("err", err))
		return err
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) watchCatalog(ctx context.Context, catalog *catalogHolder, conns *connSet) {
	err := config.WatchCatalog(ctx, a.cfg.CatalogFile,
		func(c *config.Catalog) {
			changed := reloadCatalog(catalog, conns, c)
			a.log.Info("catalog reloaded",
				slog.Int("queries", len(c.Queries)),
				slog.Int("connections", len(c.Connections)),
				slog.Any("reopened", changed),
			)
		},
		func(err error) {
			a.log.Warn("catalog reload failed", slog.Any("err", err))
		},
	)
	if err != nil {
		a.log.Error("catalog watcher", slog.Any("err", err))
	}
}

// reloadCatalog installs c and drops connections whose definition changed.
// Requests already using a dropped connection finish on it.
func reloadCatalog(catalog *catalogHolder, conns *connSet, c *config.Catalog) []string {
	changed := catalog.Swap(c)
	conns.Drop(changed...)
	return changed
}

// migrateCatalog applies migrations to every file-backed sqlite connection of the catalog.
// In-memory databases and ready-made DSNs are skipped.
func migrateCatalog(cat *config.Catalog, dir string, log *slog.Logger) error {
	for _, name := range cat.ConnectionNames() {
		conn := cat.Connections[name]
		if !dialect.IsSQLiteProvider(conn.Provider) || !isSQLitePath(conn.ConnectionString) {
			continue
		}
		if err := sqlite.ApplyMigrations(conn.ConnectionString, dir); err != nil {
			return fmt.Errorf("migrate connection %s: %w", name, err)
		}
		version, _, err := sqlite.GetMigrationVersion(conn.ConnectionString, dir)
		if err != nil {
			return fmt.Errorf("migrate connection %s: %w", name, err)
		}
		log.Info("migrations applied", slog.String("connection", name), slog.Uint64("version", uint64(version)))
	}
	return nil
}

func isSQLitePath(connString string) bool {
	return connString != sqlite.MemoryPath &&
		!strings.HasPrefix(connString, "file:") &&
		!strings.Contains(connString, "?")
}
