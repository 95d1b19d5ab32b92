package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// APIKeyStore reads operational secrets managed from the admin panel.
type APIKeyStore struct {
	db DBExecutor
}

func NewAPIKeyStore(db DBExecutor) *APIKeyStore {
	return &APIKeyStore{db: db}
}

// Lookup returns the key stored for service, or "" when none is stored.
func (s *APIKeyStore) Lookup(ctx context.Context, service string) (string, error) {
	var key string
	err := s.db.QueryRow(ctx, `SELECT key FROM api_keys WHERE service = $1`, service).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("api key lookup %s: %w", service, err)
	}
	return key, nil
}
