package ollama

import (
	"log/slog"

	"github.com/poiesic/newslens/ai"
)

// Provider implements ai.AIProvider using an Ollama server.
type Provider struct {
	config   *ai.Config
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewProvider creates a provider backed by Ollama.
// The config is validated and normalized before use.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:   config,
		embedder: ai.NewRateLimitedEmbedder(embedder, config.RequestsPerSecond, config.Burst),
		logger:   slog.Default().With("component", "ollama-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Model returns the configured embedding model.
func (p *Provider) Model() string {
	return p.config.EmbeddingModel
}

// Close is a no-op; the HTTP client needs no cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing Ollama provider")
	return nil
}
