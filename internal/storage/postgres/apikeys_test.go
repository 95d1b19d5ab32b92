package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func TestAPIKeyStore_Lookup(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mockDB.Close()

	store := NewAPIKeyStore(mockDB)

	mockDB.ExpectQuery("SELECT key FROM api_keys").
		WithArgs("firecrawl").
		WillReturnRows(pgxmock.NewRows([]string{"key"}).AddRow("fc-123"))
	mockDB.ExpectQuery("SELECT key FROM api_keys").
		WithArgs("cryptopanic").
		WillReturnError(pgx.ErrNoRows)

	key, err := store.Lookup(context.Background(), "firecrawl")
	if err != nil || key != "fc-123" {
		t.Errorf("expected stored key, got %q err=%v", key, err)
	}

	key, err = store.Lookup(context.Background(), "cryptopanic")
	if err != nil || key != "" {
		t.Errorf("missing key should be empty without error, got %q err=%v", key, err)
	}
}
