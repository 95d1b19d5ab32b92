package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/oranjParker/Sintillio/internal/core"
)

const insertResultSQL = `
	INSERT INTO search_results
		(query_id, title, description, url, content, content_type, metadata, embedding, is_published, published_at, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::text::vector, $9, $10, $11)
	RETURNING id::text
`

type ResultStore struct {
	db  DBExecutor
	now func() time.Time
}

func NewResultStore(db DBExecutor) *ResultStore {
	return &ResultStore{db: db, now: time.Now}
}

// insertArgs builds the insert parameters for one candidate. A row is
// published at insert only when it already carries an embedding.
func (s *ResultStore) insertArgs(queryID string, doc core.Candidate) ([]any, error) {
	meta, err := encodeJSON(doc.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode result metadata: %w", err)
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = core.ContentTypeMarkdown
	}

	published := len(doc.Embedding) > 0
	var publishedAt *time.Time
	if published {
		ts := s.now().UTC()
		if doc.PublishedAt != nil {
			ts = doc.PublishedAt.UTC()
		}
		publishedAt = &ts
	}

	return []any{
		queryID,
		doc.Title,
		doc.Description,
		doc.URL,
		doc.Content,
		contentType,
		meta,
		encodeVector(doc.Embedding),
		published,
		publishedAt,
		doc.Source,
	}, nil
}

// WriteBatch inserts every candidate in one transaction. Either all rows are
// stored or none are.
func (s *ResultStore) WriteBatch(ctx context.Context, queryID string, docs []core.Candidate) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin batch: %v", core.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(docs))
	for i, doc := range docs {
		args, err := s.insertArgs(queryID, doc)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", core.ErrPersistence, i, err)
		}
		var id string
		if err := tx.QueryRow(ctx, insertResultSQL, args...).Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", core.ErrPersistence, i, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit batch: %v", core.ErrPersistence, err)
	}
	return ids, nil
}

// WriteOne inserts a single candidate outside any batch.
func (s *ResultStore) WriteOne(ctx context.Context, queryID string, doc core.Candidate) (string, error) {
	args, err := s.insertArgs(queryID, doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}

	var id string
	if err := s.db.QueryRow(ctx, insertResultSQL, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("%w: insert result: %v", core.ErrPersistence, err)
	}
	return id, nil
}

// ListUnembedded returns the rows of queryID still waiting for a vector.
func (s *ResultStore) ListUnembedded(ctx context.Context, queryID string) ([]core.ContentResult, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, query_id::text, title, COALESCE(description, ''), url,
		       COALESCE(content, ''), content_type, metadata, COALESCE(source, '')
		FROM search_results
		WHERE query_id = $1 AND embedding IS NULL
		ORDER BY created_at
	`, queryID)
	if err != nil {
		return nil, fmt.Errorf("%w: list unembedded: %v", core.ErrPersistence, err)
	}
	defer rows.Close()

	var out []core.ContentResult
	for rows.Next() {
		var (
			r    core.ContentResult
			meta []byte
		)
		if err := rows.Scan(&r.ID, &r.QueryID, &r.Title, &r.Description, &r.URL, &r.Content, &r.ContentType, &meta, &r.Source); err != nil {
			return nil, fmt.Errorf("%w: scan result: %v", core.ErrPersistence, err)
		}
		r.Metadata = decodeJSON(meta)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate results: %v", core.ErrPersistence, err)
	}
	return out, nil
}

// Publish stores the vector and flips the row to published in one statement.
// The embedding IS NULL guard makes a concurrent second writer a no-op.
func (s *ResultStore) Publish(ctx context.Context, id string, embedding []float32) (bool, error) {
	if len(embedding) == 0 {
		return false, fmt.Errorf("%w: refusing to publish %s without an embedding", core.ErrInvalidRequest, id)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE search_results
		SET embedding = $2::text::vector, is_published = TRUE, published_at = NOW()
		WHERE id = $1 AND embedding IS NULL
	`, id, encodeVector(embedding))
	if err != nil {
		return false, fmt.Errorf("%w: publish %s: %v", core.ErrPersistence, id, err)
	}
	return tag.RowsAffected() == 1, nil
}
