package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/oranjParker/Sintillio/internal/config"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "text-embedding-004"

type GeminiProvider struct {
	Client *genai.Client
	Model  string
	dims   int
}

func NewGeminiProvider(ctx context.Context, cfg config.EmbeddingConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" || model == "nomic-ai/nomic-embed-text-v1.5" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{Client: client, Model: model, dims: cfg.Dimensions}, nil
}

func (g *GeminiProvider) Dimensions() int { return g.dims }

func (g *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	em := g.Client.EmbeddingModel(g.Model)
	em.TaskType = genai.TaskTypeRetrievalDocument

	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("gemini embed: empty response")
	}
	return finish(resp.Embedding.Values, g.dims)
}

func (g *GeminiProvider) Close() error {
	return g.Client.Close()
}
