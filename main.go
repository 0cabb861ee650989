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

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/msomdec/hublocal-manager/internal/config"
	"github.com/msomdec/hublocal-manager/internal/domain"
	"github.com/msomdec/hublocal-manager/internal/handler"
	"github.com/msomdec/hublocal-manager/internal/metrics"
	"github.com/msomdec/hublocal-manager/internal/repository/postgres"
	"github.com/msomdec/hublocal-manager/internal/repository/sqlite"
	"github.com/msomdec/hublocal-manager/internal/security/password"
	"github.com/msomdec/hublocal-manager/internal/security/token"
	"github.com/msomdec/hublocal-manager/internal/service"
)

func main() {
	cfg, err := config.Load()
	setupLogger(cfg.IsDevelopment() || err != nil)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func setupLogger(dev bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if dev {
		h = tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug, TimeFormat: time.Kitchen})
	}
	slog.SetDefault(slog.New(h))
}

func run(cfg config.Config) error {
	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}
	issuer, err := token.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied", "driver", cfg.DatabaseDriver)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	authService := service.NewAuthService(db.Users(), hasher, issuer, cfg.PasswordMinLength)
	companyService := service.NewCompanyService(db.Companies(), service.NewOwnershipGuard(m))
	locationService := service.NewLocationService(db.Locations(), companyService)

	api := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.NewRouter(handler.Deps{
			DB:          db,
			Auth:        authService,
			Companies:   companyService,
			Locations:   locationService,
			AuthLimiter: service.NewTokenBucket(cfg.AuthRate, cfg.AuthBurst),
			Metrics:     m,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", metrics.Handler(registry))
	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(api, "api") })
	g.Go(func() error { return serve(metricsSrv, "metrics") })
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Join(api.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

func serve(srv *http.Server, name string) error {
	slog.Info("server starting", "name", name, "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}
	return nil
}

func openDatabase(ctx context.Context, cfg config.Config) (domain.Database, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	default:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	}
}
