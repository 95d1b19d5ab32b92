// Package embedding turns stored content results into unit-length vectors
// and publishes them to the feed.
package embedding

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/core"
)

// Provider computes one embedding per text. Implementations return vectors
// of the configured dimension, already normalised.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// NewProvider builds the backend named by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.EmbeddingConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "http":
		return NewHTTPProvider(cfg, &http.Client{Timeout: cfg.Timeout}), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: gemini embedding provider needs an api key", core.ErrConfiguration)
		}
		return NewGeminiProvider(ctx, cfg)
	case "ollama":
		return NewOllamaProvider(cfg, &http.Client{Timeout: cfg.Timeout})
	case "hash":
		return NewHashProvider(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", core.ErrConfiguration, cfg.Provider)
	}
}

// NormalizeVector scales v in place to unit length. A zero vector is left
// untouched.
func NormalizeVector(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}

// finish validates a backend vector against the expected dimension and
// normalises it.
func finish(v []float32, dims int) ([]float32, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}
	if dims > 0 && len(v) != dims {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(v), dims)
	}
	out := make([]float32, len(v))
	copy(out, v)
	NormalizeVector(out)
	return out, nil
}
