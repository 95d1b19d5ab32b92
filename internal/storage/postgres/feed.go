package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/oranjParker/Sintillio/internal/core"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

type FeedQuery struct {
	Limit  int
	Offset int
	Source string
}

type FeedStore struct {
	db DBExecutor
}

func NewFeedStore(db DBExecutor) *FeedStore {
	return &FeedStore{db: db}
}

// ListPublished returns rows visible to readers: published and embedded,
// newest first.
func (s *FeedStore) ListPublished(ctx context.Context, q FeedQuery) ([]core.ContentResult, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultFeedLimit
	}
	if q.Limit > MaxFeedLimit {
		q.Limit = MaxFeedLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(
			"id::text", "query_id::text", "title", "COALESCE(description, '')", "url",
			"COALESCE(content, '')", "content_type", "metadata", "published_at", "COALESCE(source, '')",
		).
		From("search_results").
		Where(sq.Eq{"is_published": true}).
		Where("embedding IS NOT NULL").
		OrderBy("published_at DESC", "id DESC").
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset))

	if q.Source != "" {
		builder = builder.Where(sq.Eq{"source": q.Source})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build feed query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: feed query: %v", core.ErrPersistence, err)
	}
	defer rows.Close()

	out := make([]core.ContentResult, 0, q.Limit)
	for rows.Next() {
		var (
			r    core.ContentResult
			meta []byte
		)
		if err := rows.Scan(&r.ID, &r.QueryID, &r.Title, &r.Description, &r.URL, &r.Content, &r.ContentType, &meta, &r.PublishedAt, &r.Source); err != nil {
			return nil, fmt.Errorf("%w: scan feed row: %v", core.ErrPersistence, err)
		}
		r.Metadata = decodeJSON(meta)
		r.IsPublished = true
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate feed: %v", core.ErrPersistence, err)
	}
	return out, nil
}
