package embed

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI encodes text with an OpenAI-compatible embeddings endpoint. The
// model is loaded server-side once; the client holds no mutable state.
type OpenAI struct {
	api   *openai.Client
	model string
}

// NewOpenAI creates an embeddings client. An empty baseURL uses the
// default OpenAI endpoint; point it at any OpenAI-compatible server
// otherwise.
func NewOpenAI(baseURL, apiKey, modelName string) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAI{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Encode returns the embedding vector for text. Failures are not retried;
// the caller decides what a failed encoding means for its grading call.
func (o *OpenAI) Encode(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(o.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings API call: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings API returned no data")
	}
	return resp.Data[0].Embedding, nil
}

// Ping verifies the endpoint answers an embedding request.
func (o *OpenAI) Ping(ctx context.Context) error {
	if _, err := o.Encode(ctx, "ping"); err != nil {
		return fmt.Errorf("embeddings health check: %w", err)
	}
	return nil
}
