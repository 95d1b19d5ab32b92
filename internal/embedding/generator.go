package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/events"
	"github.com/redis/go-redis/v9"
)

const (
	claimPrefix       = "sintillio:embed:claim:"
	defaultRowTimeout = 30 * time.Second

	MessageNoRows    = "No search results found without embeddings"
	MessageGenerated = "Embeddings generated successfully"
)

var releaseClaim = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type ResultStore interface {
	ListUnembedded(ctx context.Context, queryID string) ([]core.ContentResult, error)
	Publish(ctx context.Context, id string, embedding []float32) (bool, error)
}

type LedgerStore interface {
	Close(ctx context.Context, id string, status core.Status, patch core.LedgerPatch) error
}

// VectorMirror receives a copy of every published vector.
type VectorMirror interface {
	Upsert(ctx context.Context, collection, key string, vector []float32, payload map[string]any) error
}

type Stats struct {
	Processed int
	Total     int
	Message   string
}

type GeneratorOptions struct {
	// Redis enables the per-query claim. Without it concurrent runs rely on
	// the publish guard alone.
	Redis    *redis.Client
	ClaimTTL time.Duration

	// RowTimeout bounds the embed and publish of a single row.
	RowTimeout time.Duration

	Mirror     VectorMirror
	Collection string

	Events events.Publisher
}

type Generator struct {
	results  ResultStore
	ledger   LedgerStore
	provider Provider
	opts     GeneratorOptions
	logger   *slog.Logger
}

func NewGenerator(results ResultStore, ledger LedgerStore, provider Provider, opts GeneratorOptions, logger *slog.Logger) *Generator {
	if opts.ClaimTTL <= 0 {
		opts.ClaimTTL = 10 * time.Minute
	}
	if opts.RowTimeout <= 0 {
		opts.RowTimeout = defaultRowTimeout
	}
	if opts.Events == nil {
		opts.Events = events.Noop{}
	}
	return &Generator{
		results:  results,
		ledger:   ledger,
		provider: provider,
		opts:     opts,
		logger:   logger.With("component", "embedding_generator"),
	}
}

// Embed vectorises every unembedded row of queryID, publishes each one and
// marks the ledger embedded. Rows that fail are logged and left for a later
// run. Once rows are loaded the run ignores caller cancellation and always
// closes the ledger. Running it again for the same query processes nothing.
func (g *Generator) Embed(ctx context.Context, queryID string) (Stats, error) {
	if queryID == "" {
		return Stats{}, core.Describe(core.ErrInvalidRequest, "Query ID is required", "")
	}

	release, err := g.claim(ctx, queryID)
	if err != nil {
		return Stats{}, err
	}
	defer release()

	rows, err := g.results.ListUnembedded(ctx, queryID)
	if err != nil {
		return Stats{}, core.Describe(core.ErrPersistence, "Failed to fetch search results", err.Error())
	}
	if len(rows) == 0 {
		return Stats{Message: MessageNoRows}, nil
	}

	runCtx := context.WithoutCancel(ctx)
	processed := 0
	for i := range rows {
		if g.embedRow(runCtx, &rows[i]) {
			processed++
		}
	}

	total := len(rows)
	patch := core.LedgerPatch{
		Embedded:  core.IntPtr(processed),
		Processed: core.IntPtr(processed),
		Total:     core.IntPtr(total),
	}
	if err := g.ledger.Close(runCtx, queryID, core.StatusEmbedded, patch); err != nil {
		g.logger.Error("failed to mark ledger embedded", "query_id", queryID, "error", err)
	}

	evt := core.Event{
		Type:      core.EventContentEmbedded,
		QueryID:   queryID,
		Processed: processed,
		Total:     total,
		Timestamp: time.Now().UTC(),
	}
	if err := g.opts.Events.Publish(runCtx, evt); err != nil {
		g.logger.Warn("failed to publish embedded event", "query_id", queryID, "error", err)
	}

	g.logger.Info("embedding run finished", "query_id", queryID, "processed", processed, "total", total)
	return Stats{Processed: processed, Total: total, Message: MessageGenerated}, nil
}

func (g *Generator) embedRow(ctx context.Context, row *core.ContentResult) bool {
	log := g.logger.With("query_id", row.QueryID, "result_id", row.ID)

	ctx, cancel := context.WithTimeout(ctx, g.opts.RowTimeout)
	defer cancel()

	text := row.EmbeddingText()
	if text == "" {
		log.Warn("empty text to embed, skipping")
		return false
	}

	vector, err := g.provider.Embed(ctx, text)
	if err != nil {
		log.Error("embedding failed", "error", err)
		return false
	}

	ok, err := g.results.Publish(ctx, row.ID, vector)
	if err != nil {
		log.Error("failed to store embedding", "error", err)
		return false
	}
	if !ok {
		log.Debug("row already embedded by another run")
		return false
	}

	if g.opts.Mirror != nil {
		payload := MirrorPayload(row.QueryID, row.Title, row.URL, row.Source)
		if err := g.opts.Mirror.Upsert(ctx, g.opts.Collection, row.ID, vector, payload); err != nil {
			log.Warn("vector mirror upsert failed", "error", err)
		}
	}
	return true
}

// MirrorPayload is the metadata stored next to a mirrored vector.
func MirrorPayload(queryID, title, url, source string) map[string]any {
	return map[string]any{
		"query_id": queryID,
		"title":    title,
		"url":      url,
		"source":   source,
	}
}

// claim takes the per-query lock and returns the function releasing it.
func (g *Generator) claim(ctx context.Context, queryID string) (func(), error) {
	if g.opts.Redis == nil {
		return func() {}, nil
	}

	key := claimPrefix + queryID
	token := uuid.NewString()
	ok, err := g.opts.Redis.SetNX(ctx, key, token, g.opts.ClaimTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("claim embedding run for %s: %w", queryID, err)
	}
	if !ok {
		return nil, core.Describe(core.ErrEmbeddingInProgress, "Embedding already in progress", queryID)
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseClaim.Run(releaseCtx, g.opts.Redis, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			g.logger.Warn("failed to release embedding claim", "query_id", queryID, "error", err)
		}
	}, nil
}
