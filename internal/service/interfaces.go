package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/oranjParker/Sintillio/internal/connector/cryptopanic"
	"github.com/oranjParker/Sintillio/internal/connector/firecrawl"
	"github.com/oranjParker/Sintillio/internal/connector/timeline"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/embedding"
	"github.com/oranjParker/Sintillio/internal/scraper"
	"github.com/oranjParker/Sintillio/internal/storage/postgres"
)

type LedgerStore interface {
	Open(ctx context.Context, userID, query string, snapshot any) (string, error)
	Close(ctx context.Context, id string, status core.Status, patch core.LedgerPatch) error
}

type ResultStore interface {
	WriteBatch(ctx context.Context, queryID string, docs []core.Candidate) ([]string, error)
	WriteOne(ctx context.Context, queryID string, doc core.Candidate) (string, error)
}

type FeedStore interface {
	ListPublished(ctx context.Context, q postgres.FeedQuery) ([]core.ContentResult, error)
}

type KeyStore interface {
	Lookup(ctx context.Context, service string) (string, error)
}

type AdminRoleStore interface {
	ListByEmailSuffix(ctx context.Context, suffix string) ([]postgres.AdminStatus, error)
	GrantRole(ctx context.Context, userID, role string) error
	SetProfileAdmin(ctx context.Context, userID string) error
}

type SearchConnector interface {
	Search(ctx context.Context, apiKey string, req firecrawl.Request) ([]firecrawl.Result, error)
}

type NewsConnector interface {
	Posts(ctx context.Context, apiKey string, p cryptopanic.Params) ([]cryptopanic.Post, error)
}

type TimelineConnector interface {
	List(ctx context.Context, apiKey, listID string, limit int) ([]timeline.Tweet, error)
}

type PageScraper interface {
	Scrape(ctx context.Context, rawURL string) (*scraper.Page, error)
}

// VectorProvider computes inline embeddings for headlines.
type VectorProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorMirror copies inline-embedded rows into the vector index.
type VectorMirror interface {
	Upsert(ctx context.Context, collection, key string, vector []float32, payload map[string]any) error
}

type EmbeddingRunner interface {
	Embed(ctx context.Context, queryID string) (embedding.Stats, error)
}

type Publisher interface {
	Publish(ctx context.Context, evt core.Event) error
}
