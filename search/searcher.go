package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/newslens/ai"
	"github.com/poiesic/newslens/core"
)

// DefaultLimit is the number of neighbours returned when none is requested.
const DefaultLimit = 7

// Searcher answers free-text similarity queries against an Index.
type Searcher struct {
	index    *Index
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(index *Index, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		index:    index,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Query embeds text and returns up to k articles most similar to it, best first.
func (s *Searcher) Query(ctx context.Context, text string, k int) ([]*core.Match, error) {
	embedding, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", text, "err", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.index.Nearest(embedding, k)
	if err != nil {
		s.logger.Error("error ranking query", "err", err)
		return nil, err
	}
	s.logger.Debug("query complete", "query", text, "hits", len(matches))
	return matches, nil
}

// Similar returns up to k articles most similar to the article with the given id.
func (s *Searcher) Similar(id core.ID, k int) ([]*core.Match, error) {
	return s.index.Similar(id, k)
}
