package ai

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedEmbedder throttles calls to an underlying Embedder.
// Each call, single or batched, consumes one token.
type RateLimitedEmbedder struct {
	next    Embedder
	limiter *rate.Limiter
}

var _ Embedder = (*RateLimitedEmbedder)(nil)

// NewRateLimitedEmbedder wraps next so that at most rps calls per second
// (with the given burst) reach it. A non-positive rps returns next unchanged.
func NewRateLimitedEmbedder(next Embedder, rps float64, burst int) Embedder {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedEmbedder{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// EmbedText waits for a token and delegates.
func (r *RateLimitedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.EmbedText(ctx, text)
}

// EmbedTexts waits for a token and delegates.
func (r *RateLimitedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.EmbedTexts(ctx, texts)
}
