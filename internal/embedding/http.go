package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/oranjParker/Sintillio/internal/config"
)

// HTTPProvider talks to an OpenAI-compatible /embeddings endpoint such as
// infinity or text-embeddings-inference.
type HTTPProvider struct {
	endpoint   string
	model      string
	apiKey     string
	dims       int
	httpClient *http.Client
}

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
	Task  string   `json:"task"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func NewHTTPProvider(cfg config.EmbeddingConfig, client *http.Client) *HTTPProvider {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if !strings.HasSuffix(endpoint, "/embeddings") {
		endpoint += "/embeddings"
	}
	return &HTTPProvider{
		endpoint:   endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		dims:       cfg.Dimensions,
		httpClient: client,
	}
}

func (p *HTTPProvider) Dimensions() int { return p.dims }

func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{
		Input: []string{text},
		Model: p.model,
		Task:  "search_document",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service unreachable at %s: %w", p.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	return finish(out.Data[0].Embedding, p.dims)
}
