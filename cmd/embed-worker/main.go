package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/database"
	"github.com/oranjParker/Sintillio/internal/embedding"
	"github.com/oranjParker/Sintillio/internal/events"
	"github.com/oranjParker/Sintillio/internal/logging"
	"github.com/oranjParker/Sintillio/internal/storage/postgres"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	deps, err := setupWorkerDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("infrastructure failure", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	runner := buildRunner(cfg, deps, logger)

	logger.Info("embed worker ready, awaiting acquisition events",
		"workers", cfg.Embedding.Workers, "min_interval", cfg.Embedding.MinInterval)
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker exited", "error", err)
	}
	stats := runner.Stats()
	logger.Info("embed worker stopped", "handled", stats.Handled, "failed", stats.Failed)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

type WorkerDependencies struct {
	Nats     *database.NatsConn
	Redis    *redis.Client
	Postgres *pgxpool.Pool
	Qdrant   *database.QdrantClient
	Embedder embedding.Provider
}

func (d *WorkerDependencies) Close() {
	if c, ok := d.Embedder.(io.Closer); ok {
		_ = c.Close()
	}
	if d.Qdrant != nil {
		_ = d.Qdrant.Close()
	}
	if d.Nats != nil {
		d.Nats.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.Postgres != nil {
		d.Postgres.Close()
	}
}

func setupWorkerDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*WorkerDependencies, error) {
	if cfg.Events.Driver != "nats" {
		return nil, fmt.Errorf("%w: embed worker needs events.driver nats, got %q", core.ErrConfiguration, cfg.Events.Driver)
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deps := &WorkerDependencies{}
	fail := func(step string, err error) (*WorkerDependencies, error) {
		deps.Close()
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	pg, err := database.NewPool(initCtx, cfg.Database)
	if err != nil {
		return fail("postgres init", err)
	}
	deps.Postgres = pg

	rdb, err := database.NewRedisClient(initCtx, cfg.Redis)
	if err != nil {
		return fail("redis init", err)
	}
	deps.Redis = rdb

	nt, err := database.NewNatsConnection(cfg.Events.NATS, events.StreamSubjects()...)
	if err != nil {
		return fail("nats init", err)
	}
	deps.Nats = nt

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

	provider, err := embedding.NewProvider(initCtx, cfg.Embedding)
	if err != nil {
		return fail("embedding provider init", err)
	}
	deps.Embedder = provider

	return deps, nil
}

// buildRunner assembles the event pipeline: acquisition events from the
// stream, spaced by the provider quota, filtered to those with pending rows
// and handed to the embedding generator.
func buildRunner(cfg *config.Config, deps *WorkerDependencies, logger *slog.Logger) *core.PipelineRunner[embedding.EventDoc] {
	opts := embedding.GeneratorOptions{
		Redis:      deps.Redis,
		ClaimTTL:   cfg.Embedding.ClaimTTL,
		Collection: cfg.Qdrant.Collection,
		Events:     events.NewNatsPublisher(deps.Nats.JS, nil),
	}
	if deps.Qdrant != nil {
		opts.Mirror = deps.Qdrant
	}
	generator := embedding.NewGenerator(
		postgres.NewResultStore(deps.Postgres),
		postgres.NewLedgerStore(deps.Postgres),
		deps.Embedder,
		opts,
		logger,
	)

	src := events.NewNatsSource(deps.Nats.JS, core.EventAcquisitionCompleted, cfg.Events.NATS.Queue, logger)
	throttled := core.NewThrottledSource[embedding.EventDoc](src, cfg.Embedding.MinInterval)

	runner := core.NewPipelineRunner[embedding.EventDoc](throttled, embedding.NewEventSink(generator), core.PipelineConfig{
		Concurrency: cfg.Embedding.Workers,
		Name:        "embed-worker",
	}, logger)
	runner.AddProcessor(embedding.AcquisitionFilter())
	return runner
}
