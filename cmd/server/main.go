package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oranjParker/Sintillio/internal/api"
	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/connector/cryptopanic"
	"github.com/oranjParker/Sintillio/internal/connector/firecrawl"
	"github.com/oranjParker/Sintillio/internal/connector/timeline"
	"github.com/oranjParker/Sintillio/internal/database"
	"github.com/oranjParker/Sintillio/internal/embedding"
	"github.com/oranjParker/Sintillio/internal/events"
	"github.com/oranjParker/Sintillio/internal/identity"
	"github.com/oranjParker/Sintillio/internal/logging"
	"github.com/oranjParker/Sintillio/internal/reconciler"
	"github.com/oranjParker/Sintillio/internal/scraper"
	"github.com/oranjParker/Sintillio/internal/service"
	"github.com/oranjParker/Sintillio/internal/storage/postgres"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server exited: %v\n", err)
		os.Exit(1)
	}
}

type AppDependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Qdrant   *database.QdrantClient
	Events   events.Publisher
	Embedder embedding.Provider
}

func (d *AppDependencies) Close() {
	if c, ok := d.Embedder.(io.Closer); ok {
		_ = c.Close()
	}
	if d.Events != nil {
		_ = d.Events.Close()
	}
	if d.Qdrant != nil {
		_ = d.Qdrant.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	deps, err := setupDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	return runWithDeps(ctx, deps)
}

func setupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*AppDependencies, error) {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deps := &AppDependencies{Config: cfg, Logger: logger}
	fail := func(step string, err error) (*AppDependencies, error) {
		deps.Close()
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	pool, err := database.NewPool(initCtx, cfg.Database)
	if err != nil {
		return fail("postgres init", err)
	}
	deps.Pool = pool

	rdb, err := database.NewRedisClient(initCtx, cfg.Redis)
	if err != nil {
		return fail("redis init", err)
	}
	deps.Redis = rdb

	if cfg.Qdrant.Enabled {
		qdb, err := database.NewQdrantClient(cfg.Qdrant)
		if err != nil {
			return fail("qdrant init", err)
		}
		deps.Qdrant = qdb
		if err := qdb.EnsureCollection(initCtx, cfg.Qdrant.Collection, uint64(cfg.Embedding.Dimensions)); err != nil {
			logger.Warn("qdrant collection setup failed", "collection", cfg.Qdrant.Collection, "error", err)
		}
	}

	pub, err := events.New(cfg.Events, logger)
	if err != nil {
		return fail("events init", err)
	}
	deps.Events = pub

	provider, err := embedding.NewProvider(initCtx, cfg.Embedding)
	if err != nil {
		return fail("embedding provider init", err)
	}
	deps.Embedder = provider

	return deps, nil
}

// buildServer wires stores, connectors and the pipeline behind the HTTP API.
func buildServer(deps *AppDependencies) (*api.Server, *postgres.LedgerStore, error) {
	cfg := deps.Config
	logger := deps.Logger

	ledger := postgres.NewLedgerStore(deps.Pool)
	results := postgres.NewResultStore(deps.Pool)
	roles := postgres.NewRoleStore(deps.Pool)

	validator, err := identity.NewValidator(cfg.Identity, nil)
	if err != nil {
		return nil, nil, err
	}
	gate := identity.NewGate(validator, roles, cfg.Identity.TrustedDomain, logger)

	var renderer scraper.Renderer
	if cfg.Scraper.RenderSparse {
		renderer = scraper.NewChromeRenderer(cfg.Scraper.RenderTimeout)
	}

	opts := embedding.GeneratorOptions{
		Redis:      deps.Redis,
		ClaimTTL:   cfg.Embedding.ClaimTTL,
		Collection: cfg.Qdrant.Collection,
		Events:     deps.Events,
	}
	if deps.Qdrant != nil {
		opts.Mirror = deps.Qdrant
	}
	generator := embedding.NewGenerator(results, ledger, deps.Embedder, opts, logger)

	keys := service.NewKeyResolver(map[string]string{
		service.SecretFirecrawl.Service:   cfg.Connectors.Firecrawl.APIKey,
		service.SecretCryptoPanic.Service: cfg.Connectors.CryptoNews.APIKey,
		service.SecretRapidAPI.Service:    cfg.Connectors.Timeline.APIKey,
	}, postgres.NewAPIKeyStore(deps.Pool), logger)

	pipeline := service.NewPipeline(service.Deps{
		Ledger:        ledger,
		Results:       results,
		Feed:          postgres.NewFeedStore(deps.Pool),
		Roles:         roles,
		Keys:          keys,
		Search:        firecrawl.NewClient(cfg.Connectors.Firecrawl, nil),
		News:          cryptopanic.NewClient(cfg.Connectors.CryptoNews, nil, logger),
		Timeline:      timeline.NewClient(cfg.Connectors.Timeline, nil, deps.Redis, logger),
		Scraper:       scraper.New(cfg.Scraper, deps.Redis, renderer, logger),
		Vectors:       deps.Embedder,
		Mirror:        opts.Mirror,
		Embedder:      generator,
		Events:        deps.Events,
		Collection:    cfg.Qdrant.Collection,
		TrustedDomain: cfg.Identity.TrustedDomain,
	}, logger)

	healthCheck := func(ctx context.Context) error {
		if deps.Pool == nil {
			return nil
		}
		return deps.Pool.Ping(ctx)
	}

	return api.NewServer(gate, pipeline, healthCheck, logger), ledger, nil
}

func runWithDeps(ctx context.Context, deps *AppDependencies) error {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
		deps.Logger = logger
	}

	srv, ledger, err := buildServer(deps)
	if err != nil {
		return err
	}
	handler, err := srv.Handler()
	if err != nil {
		return err
	}

	grpcLis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("grpc listen on %s: %w", cfg.Server.GRPCAddr, err)
	}
	httpLis, err := net.Listen("tcp", cfg.Server.HTTPAddr)
	if err != nil {
		grpcLis.Close()
		return fmt.Errorf("http listen on %s: %w", cfg.Server.HTTPAddr, err)
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	reflection.Register(grpcServer)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("grpc server listening", "addr", grpcLis.Addr().String())
		if err := grpcServer.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc serve: %w", err)
		}
	}()
	go func() {
		logger.Info("http server listening", "addr", httpLis.Addr().String())
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve: %w", err)
		}
	}()

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	if cfg.Reconciler.Enabled && deps.Pool != nil {
		rec := reconciler.New(ledger, cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
		go func() {
			if err := rec.Start(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("reconciler stopped", "error", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case runErr = <-errCh:
	}

	logger.Info("shutting down")
	stopBackground()
	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()

	return runErr
}
