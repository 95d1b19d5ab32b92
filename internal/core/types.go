package core

import (
	"context"
	"time"
)

// Status is the lifecycle state of a ledger entry.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusPartial    Status = "partial"
	StatusEmbedded   Status = "embedded"
)

func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed, StatusPartial, StatusEmbedded:
		return true
	}
	return false
}

// CanTransition reports whether the ledger may move from s to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed || next == StatusPartial || next == StatusEmbedded
	case StatusCompleted, StatusPartial:
		return next == StatusEmbedded
	case StatusEmbedded:
		return next == StatusEmbedded
	}
	return false
}

var statuses = []Status{StatusProcessing, StatusCompleted, StatusFailed, StatusPartial, StatusEmbedded}

// Predecessors lists every status a ledger may leave to reach s.
func (s Status) Predecessors() []Status {
	var out []Status
	for _, from := range statuses {
		if from.CanTransition(s) {
			out = append(out, from)
		}
	}
	return out
}

const (
	SourceFirecrawl   = "firecrawl"
	SourceCryptoPanic = "cryptopanic"

	ContentTypeMarkdown = "markdown"
)

// Caller is the authenticated principal behind a request.
type Caller struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AcquisitionQuery struct {
	ID        string         `json:"id"`
	Query     string         `json:"query"`
	UserID    string         `json:"user_id"`
	Metadata  map[string]any `json:"metadata"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

type ContentResult struct {
	ID          string         `json:"id"`
	QueryID     string         `json:"query_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Content     string         `json:"content"`
	ContentType string         `json:"content_type"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Embedding   []float32      `json:"-"`
	IsPublished bool           `json:"is_published"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Source      string         `json:"source,omitempty"`
}

// EmbeddingText is the blob fed to the embedding provider.
func (r *ContentResult) EmbeddingText() string {
	return JoinEmbeddingText(r.Title, r.Description, r.Content)
}

// Candidate is a normalized document produced by a connector, not yet stored.
type Candidate struct {
	Title       string
	Description string
	URL         string
	Content     string
	ContentType string
	Source      string
	Metadata    map[string]any
	PublishedAt *time.Time
	Embedding   []float32
}

// Document wraps pipeline payloads flowing between a source and a sink.
type Document[T any] struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	Content   T              `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Ack       func()         `json:"-"`
}

func (d *Document[T]) DoAck() {
	if d == nil || d.Ack == nil {
		return
	}
	d.Ack()
}

type Source[T any] interface {
	Stream(ctx context.Context) (<-chan T, error)
}

type Processor[In any, Out any] interface {
	Process(ctx context.Context, input In) ([]Out, error)
}

type FunctionalProcessor[In any, Out any] struct {
	Fn func(context.Context, In) ([]Out, error)
}

func (p *FunctionalProcessor[In, Out]) Process(ctx context.Context, input In) ([]Out, error) {
	return p.Fn(ctx, input)
}

type Sink[T any] interface {
	Write(ctx context.Context, item T) error
	Close() error
}

// Event types published on the pipeline bus.
const (
	EventAcquisitionCompleted = "acquisition.completed"
	EventContentEmbedded      = "content.embedded"
)

type Event struct {
	Type      string    `json:"type"`
	QueryID   string    `json:"query_id"`
	Source    string    `json:"source,omitempty"`
	Processed int       `json:"processed,omitempty"`
	Total     int       `json:"total,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
