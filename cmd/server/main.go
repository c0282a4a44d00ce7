// Command server runs the acadia faculty activity API.
//
// Configuration is layered: built-in defaults, a YAML config file
// (explicit -config flag, ACADIA_CONFIG, ./config.yaml, or
// /etc/acadia/config.yaml), then ACADIA_* environment overrides:
//
//	ACADIA_PORT                  - Listen port (default: 5000)
//	ACADIA_STORAGE               - Storage type: "memory" or "postgres" (default: "memory")
//	ACADIA_DATABASE_URL          - PostgreSQL DSN (required for postgres storage)
//	ACADIA_MIGRATE_ON_START      - Run schema migrations at startup
//	ACADIA_BCRYPT_COST           - Password hashing cost (default: 10)
//	ACADIA_RATELIMIT_PER_MINUTE  - Per-user write rate limit, 0 disables
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acadia-dev/acadia/pkg/auth"
	"github.com/acadia-dev/acadia/pkg/config"
	"github.com/acadia-dev/acadia/pkg/observability"
	"github.com/acadia-dev/acadia/pkg/resource"
	"github.com/acadia-dev/acadia/pkg/storage"
	"github.com/acadia-dev/acadia/pkg/storage/memory"
	"github.com/acadia-dev/acadia/pkg/storage/postgres"
	"github.com/acadia-dev/acadia/pkg/transport"
	transporthttp "github.com/acadia-dev/acadia/pkg/transport/http"
	"github.com/acadia-dev/acadia/pkg/users"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Services.
	resources := resource.NewService(store, logger)
	userSvc := users.NewService(store, resources, logger, cfg.Auth.BcryptCost)

	// Authentication chain and optional per-user write rate limit.
	chain := &auth.Chain{Authenticators: []auth.Authenticator{auth.NewBasic(store)}}
	var limiter auth.RateLimiter
	if cfg.Auth.RateLimitPerMinute > 0 {
		limiter = auth.NewInProcessLimiter(cfg.Auth.RateLimitPerMinute)
	}

	adapterCfg := transporthttp.DefaultConfig()
	adapterCfg.Addr = fmt.Sprintf(":%d", cfg.Server.Port)
	adapterCfg.MaxBodySize = cfg.Server.MaxBodySize
	adapter := transporthttp.NewAdapter(resources, userSvc, chain, limiter, adapterCfg)

	// Outer mux carries the operational endpoints next to the API.
	mux := http.NewServeMux()
	mux.Handle("/", adapter.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.HealthCheck(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("unhealthy\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	handler := transport.Chain(
		transport.RequestID(),
		transport.Logging(logger),
		observability.MetricsMiddleware,
		transport.Recovery(logger),
		transport.CORS(),
	)(mux)

	srv := transporthttp.NewServer(handler, transporthttp.ServerConfig{
		Addr:            adapterCfg.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	})
	return srv.ListenAndServe()
}

// buildStore creates the configured storage backend.
func buildStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		store, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		logger.Info("storage ready", "type", "postgres")
		return store, nil
	default:
		logger.Info("storage ready", "type", "memory")
		return memory.New(), nil
	}
}
