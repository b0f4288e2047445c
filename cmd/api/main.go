package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sgchris/gresources/internal/config"
	"github.com/sgchris/gresources/internal/database"
	"github.com/sgchris/gresources/internal/database/migration"
	handlers "github.com/sgchris/gresources/internal/http/handler"
	"github.com/sgchris/gresources/internal/http/middleware"
	"github.com/sgchris/gresources/internal/logging"
	"github.com/sgchris/gresources/internal/otel"
	"github.com/sgchris/gresources/internal/repository/sqlstore"
	"github.com/sgchris/gresources/internal/service"
	"github.com/sgchris/gresources/internal/storage"
)

// bodySlack lets oversize content reach the handler so it is rejected with
// a validation error instead of Fiber's 413.
const bodySlack = 1 << 20

// @title gresources API
// @version 1.0
// @description Hierarchical text resources addressed by path.
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gresources: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, dialect, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, dialect, log); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	var mirror storage.Storage
	if cfg.MinIO.Enabled {
		mirror, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		log.Info("mirror_enabled", zap.String("bucket", cfg.MinIO.Bucket))
	}

	store := sqlstore.NewResourceStore(db, dialect)
	svc := service.NewResourceService(store, mirror, log, service.Options{
		Validator:      cfg.Limits.Validator(),
		MaxContentSize: cfg.Limits.MaxContentSize,
		OwnerID:        cfg.OwnerID,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "gresources",
		ErrorHandler:          handlers.ErrorHandler(),
		UnescapePath:          true,
		BodyLimit:             int(cfg.Limits.MaxContentSize) + bodySlack,
		DisableStartupMessage: true,
	})
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())
	handlers.RegisterRoutes(app, svc)

	admin := fiber.New(fiber.Config{
		AppName:               "gresources-admin",
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})
	handlers.RegisterAdminRoutes(admin, db, reg, cfg.AppHost)

	errCh := make(chan error, 2)
	serve := func(name string, a *fiber.App, port string) {
		log.Info("server_listening", zap.String("server", name), zap.String("addr", ":"+port))
		if err := a.Listen(":" + port); err != nil {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}
	go serve("api", app, cfg.Port)
	go serve("admin", admin, cfg.AdminPort)

	select {
	case <-ctx.Done():
		log.Info("shutdown_requested")
	case err = <-errCh:
		log.Error("server_failed", zap.Error(err))
	}

	for _, a := range []*fiber.App{app, admin} {
		if serr := a.ShutdownWithTimeout(10 * time.Second); serr != nil {
			log.Warn("server_shutdown_failed", zap.Error(serr))
		}
	}
	return err
}
