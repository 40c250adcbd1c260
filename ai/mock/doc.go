// Package mock provides test double implementations of AI service interfaces.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedderWithDimensions(8)
//	vec, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("service unavailable")
//	}
//
//	// Check call counts and received texts
//	count := embedder.CallCount()
//	texts := embedder.Texts()
//
// # Default Behavior
//
// MockEmbedder returns deterministic unit vectors derived from an FNV hash
// of the text, so identical texts always embed identically.
package mock
