package ollama

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/newslens/ai"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Embedder implements ai.Embedder using an Ollama server.
type Embedder struct {
	client *ollama.LLM
	model  string
	logger *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := ollama.New(
		ollama.WithModel(config.EmbeddingModel),
		ollama.WithServerURL(config.EmbeddingHost),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	return &Embedder{
		client: client,
		model:  config.EmbeddingModel,
		logger: slog.Default().With("component", "ollama-embedder", "model", config.EmbeddingModel),
	}, nil
}

// NewEmbedder creates a new Ollama embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.client.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: model %s", ai.ErrEmptyEmbedding, e.model)
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
// Ollama embeds one input per request, so this issues len(texts) requests.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.client.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ai.ErrEmptyEmbedding, len(vectors), len(texts))
	}
	return vectors, nil
}
