package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oranjParker/Sintillio/internal/core"
)

type LedgerStore struct {
	db DBExecutor
}

func NewLedgerStore(db DBExecutor) *LedgerStore {
	return &LedgerStore{db: db}
}

// Open records an acquisition attempt in the processing state and returns
// its id. It must run before the connector is called.
func (s *LedgerStore) Open(ctx context.Context, userID, query string, snapshot any) (string, error) {
	meta, err := encodeJSON(snapshot)
	if err != nil {
		return "", fmt.Errorf("encode ledger snapshot: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(ctx, `
		INSERT INTO search_queries (id, query, user_id, metadata, status, created_at)
		VALUES ($1, $2, $3, $4::jsonb, 'processing', NOW())
	`, id, query, userID, meta)
	if err != nil {
		return "", core.Describe(core.ErrPersistence, "Failed to create search query", err.Error())
	}

	return id, nil
}

// Close sets the ledger status and merges patch into its metadata. The update
// only applies while the row sits in a status that may move to status; a row
// the reconciler already failed keeps its failure record.
func (s *LedgerStore) Close(ctx context.Context, id string, status core.Status, patch core.LedgerPatch) error {
	if !status.Valid() || status == core.StatusProcessing {
		return fmt.Errorf("%w: cannot close ledger with status %q", core.ErrInvalidRequest, status)
	}

	meta, err := encodeJSON(patch)
	if err != nil {
		return fmt.Errorf("encode ledger patch: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE search_queries
		SET status = $2, metadata = metadata || $3::jsonb, updated_at = NOW()
		WHERE id = $1 AND status = ANY($4::text[])
	`, id, string(status), meta, predecessors(status))
	if err != nil {
		return fmt.Errorf("%w: close ledger %s: %v", core.ErrPersistence, id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: ledger %s is %s, cannot move to %s", core.ErrInvalidTransition, id, current.Status, status)
}

func predecessors(status core.Status) []string {
	from := status.Predecessors()
	out := make([]string, len(from))
	for i, s := range from {
		out[i] = string(s)
	}
	return out
}

func (s *LedgerStore) Get(ctx context.Context, id string) (*core.AcquisitionQuery, error) {
	var (
		q      core.AcquisitionQuery
		status string
		meta   []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT id::text, query, user_id::text, metadata, status, created_at
		FROM search_queries WHERE id = $1
	`, id).Scan(&q.ID, &q.Query, &q.UserID, &meta, &status, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: ledger %s", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load ledger %s: %v", core.ErrPersistence, id, err)
	}
	q.Status = core.Status(status)
	q.Metadata = decodeJSON(meta)
	return &q, nil
}

// FailStale marks processing rows created before cutoff as failed and
// returns how many were changed.
func (s *LedgerStore) FailStale(ctx context.Context, cutoff time.Time, patch core.LedgerPatch) (int64, error) {
	meta, err := encodeJSON(patch)
	if err != nil {
		return 0, fmt.Errorf("encode ledger patch: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE search_queries
		SET status = 'failed', metadata = metadata || $2::jsonb, updated_at = NOW()
		WHERE status = 'processing' AND created_at < $1
	`, cutoff, meta)
	if err != nil {
		return 0, fmt.Errorf("%w: reconcile stale ledgers: %v", core.ErrPersistence, err)
	}
	return tag.RowsAffected(), nil
}
