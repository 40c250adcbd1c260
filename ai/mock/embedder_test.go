package mock

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedderWithDimensions(16)
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "hello")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "hello")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "world")
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 3, m.CallCount())
	assert.Equal(t, []string{"hello", "hello", "world"}, m.Texts())
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	vec := GenerateDeterministicVector("anything", 768)
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder_DefaultDimensions(t *testing.T) {
	vec, err := NewMockEmbedder().EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, vec, DefaultDimensions)
}

func TestMockEmbedder_Injection(t *testing.T) {
	m := NewMockEmbedder()
	boom := errors.New("boom")
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, boom
	}

	_, err := m.EmbedText(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	m.Reset()
	assert.Zero(t, m.CallCount())
	assert.Empty(t, m.Texts())
	_, err = m.EmbedText(context.Background(), "x")
	assert.NoError(t, err)
}

func TestMockEmbedder_EmbedTexts(t *testing.T) {
	m := NewMockEmbedderWithDimensions(4)
	vecs, err := m.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, GenerateDeterministicVector("a", 4), vecs[0])
	assert.Equal(t, 1, m.CallCount())
}

func TestMockEmbedder_Concurrent(t *testing.T) {
	m := NewMockEmbedderWithDimensions(4)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.EmbedText(ctx, "x")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.CallCount())
	assert.Len(t, m.Texts(), 50)
}

func TestMockEmbedder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockEmbedder().EmbedText(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProviderWithEmbedder(NewMockEmbedderWithDimensions(2))
	assert.Equal(t, MockModel, p.Model())
	assert.Same(t, p.GetMockEmbedder(), p.Embedder())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())
}
