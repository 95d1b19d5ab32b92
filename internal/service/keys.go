package service

import (
	"context"
	"log/slog"

	"github.com/oranjParker/Sintillio/internal/core"
)

// Secret names a connector credential: its api_keys service name and the
// environment variable operators are told to set.
type Secret struct {
	Service string
	EnvVar  string
	Label   string
}

var (
	SecretFirecrawl   = Secret{Service: "firecrawl", EnvVar: "FIRECRAWL_API_KEY", Label: "Firecrawl API key"}
	SecretCryptoPanic = Secret{Service: "cryptopanic", EnvVar: "CRYPTOPANIC_API_KEY", Label: "CryptoPanic API key"}
	SecretRapidAPI    = Secret{Service: "rapidapi", EnvVar: "RAPIDAPI_KEY", Label: "RapidAPI key"}
)

// KeyResolver finds connector secrets in the process configuration first
// and falls back to the api_keys table.
type KeyResolver struct {
	configured map[string]string
	store      KeyStore
	logger     *slog.Logger
}

func NewKeyResolver(configured map[string]string, store KeyStore, logger *slog.Logger) *KeyResolver {
	return &KeyResolver{configured: configured, store: store, logger: logger}
}

// Resolve returns the key for s or a configuration error when none is set.
func (r *KeyResolver) Resolve(ctx context.Context, s Secret) (string, error) {
	if key := r.configured[s.Service]; key != "" {
		return key, nil
	}

	if r.store != nil {
		key, err := r.store.Lookup(ctx, s.Service)
		if err != nil {
			r.logger.Warn("api key lookup failed", "service", s.Service, "error", err)
		} else if key != "" {
			return key, nil
		}
	}

	return "", core.Describe(core.ErrConfiguration, s.Label+" not configured", "The "+s.EnvVar+" environment variable is not set")
}
