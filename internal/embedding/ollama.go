package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	ollama "github.com/ollama/ollama/api"
	"github.com/oranjParker/Sintillio/internal/config"
)

const defaultOllamaEndpoint = "http://localhost:11434"

type OllamaProvider struct {
	Client *ollama.Client
	Model  string
	dims   int
}

// NewOllamaProvider uses cfg.Endpoint as the Ollama base URL. The default
// embedding endpoint of the http provider is not an Ollama server, so it is
// replaced by the local Ollama address.
func NewOllamaProvider(cfg config.EmbeddingConfig, httpClient *http.Client) (*OllamaProvider, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" || endpoint == "http://localhost:7997/v1" {
		endpoint = defaultOllamaEndpoint
	}
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama endpoint %q: %w", endpoint, err)
	}

	model := cfg.Model
	if model == "" || model == "nomic-ai/nomic-embed-text-v1.5" {
		model = "nomic-embed-text"
	}

	return &OllamaProvider{
		Client: ollama.NewClient(base, httpClient),
		Model:  model,
		dims:   cfg.Dimensions,
	}, nil
}

func (o *OllamaProvider) Dimensions() int { return o.dims }

func (o *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.Client.Embed(ctx, &ollama.EmbedRequest{
		Model: o.Model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}
	return finish(resp.Embeddings[0], o.dims)
}
