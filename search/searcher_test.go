package search

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/poiesic/newslens/ai/mock"
	"github.com/poiesic/newslens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsTable(t *testing.T) *core.Table {
	t.Helper()
	table, err := core.NewTable([]*core.Article{
		{Id: 1, Title: "budget", Body: "parliament passes budget", Embedding: core.Vector{1, 0, 0}},
		{Id: 2, Title: "budget vote", Body: "opposition reacts", Embedding: core.Vector{0.9, 0.1, 0}},
		{Id: 3, Title: "football", Body: "cup final", Embedding: core.Vector{0, 1, 0}},
		{Id: 4, Title: "pending", Body: "not embedded yet"},
		{Id: 5, Title: "weather", Body: "storm warning", Embedding: core.Vector{0, 0, 2}},
	})
	require.NoError(t, err)
	return table
}

func ids(matches []*core.Match) []core.ID {
	out := make([]core.ID, len(matches))
	for i, m := range matches {
		out[i] = m.Article.Id
	}
	return out
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b core.Vector
		want float64
	}{
		{name: "identical", a: core.Vector{1, 2, 3}, b: core.Vector{1, 2, 3}, want: 1},
		{name: "scaled", a: core.Vector{1, 1}, b: core.Vector{5, 5}, want: 1},
		{name: "orthogonal", a: core.Vector{1, 0}, b: core.Vector{0, 1}, want: 0},
		{name: "opposite", a: core.Vector{1, 0}, b: core.Vector{-1, 0}, want: -1},
		{name: "length mismatch", a: core.Vector{1, 0}, b: core.Vector{1, 0, 0}, want: 0},
		{name: "zero vector", a: core.Vector{0, 0}, b: core.Vector{1, 0}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNewIndex(t *testing.T) {
	idx, err := NewIndex(newsTable(t))
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, 3, idx.Dimensions())

	_, err = NewIndex(nil)
	assert.ErrorIs(t, err, core.ErrInvalidTable)

	mixed, err := core.NewTable([]*core.Article{
		{Id: 1, Embedding: core.Vector{1, 0}},
		{Id: 2, Embedding: core.Vector{1, 0, 0}},
	})
	require.NoError(t, err)
	_, err = NewIndex(mixed)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestIndex_Similar(t *testing.T) {
	idx, err := NewIndex(newsTable(t))
	require.NoError(t, err)

	t.Run("ranks by similarity and skips self", func(t *testing.T) {
		matches, err := idx.Similar(1, DefaultLimit)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, core.ID(2), matches[0].Article.Id)
		assert.NotContains(t, ids(matches), core.ID(1))
		assert.Greater(t, matches[0].Score, matches[1].Score)
	})

	t.Run("limits results", func(t *testing.T) {
		matches, err := idx.Similar(1, 1)
		require.NoError(t, err)
		assert.Equal(t, []core.ID{2}, ids(matches))
	})

	t.Run("ties keep table order", func(t *testing.T) {
		matches, err := idx.Similar(5, 2)
		require.NoError(t, err)
		assert.Equal(t, []core.ID{1, 2}, ids(matches))
		assert.InDelta(t, 0, matches[0].Score, 1e-9)
	})

	t.Run("zero limit", func(t *testing.T) {
		matches, err := idx.Similar(1, 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("pending article", func(t *testing.T) {
		_, err := idx.Similar(4, 3)
		assert.ErrorIs(t, err, ErrNotEmbedded)
	})

	t.Run("unknown article", func(t *testing.T) {
		_, err := idx.Similar(99, 3)
		assert.ErrorIs(t, err, ErrArticleNotFound)
	})
}

func TestIndex_Nearest(t *testing.T) {
	idx, err := NewIndex(newsTable(t))
	require.NoError(t, err)

	matches, err := idx.Nearest(core.Vector{0, 0, 5}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, core.ID(5), matches[0].Article.Id)
	assert.InDelta(t, 1, matches[0].Score, 1e-6)

	_, err = idx.Nearest(core.Vector{1, 0}, 2)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	_, err = idx.Nearest(nil, 2)
	assert.ErrorIs(t, err, core.ErrEmptyEmbedding)
}

func TestNewSearcher(t *testing.T) {
	idx, err := NewIndex(newsTable(t))
	require.NoError(t, err)
	embedder := mock.NewMockEmbedderWithDimensions(3)

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(idx, embedder)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(idx, embedder, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(idx, embedder, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewSearcher(nil, embedder)
		assert.Equal(t, ErrIndexRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewSearcher(idx, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestSearcher_Query(t *testing.T) {
	idx, err := NewIndex(newsTable(t))
	require.NoError(t, err)

	embedder := mock.NewMockEmbedderWithDimensions(3)
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if text == "sport" {
			return []float32{0.1, 1, 0}, nil
		}
		return nil, errors.New("unexpected query")
	}

	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	matches, err := searcher.Query(context.Background(), "sport", 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, core.ID(3), matches[0].Article.Id)
	assert.Equal(t, []string{"sport"}, embedder.Texts())

	_, err = searcher.Query(context.Background(), "other", 2)
	assert.Error(t, err)
}

func TestSearcher_QueryEmbedderError(t *testing.T) {
	idx, err := NewIndex(newsTable(t))
	require.NoError(t, err)

	embedder := mock.NewMockEmbedderWithDimensions(3)
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = searcher.Query(ctx, "anything", 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearcher_Similar(t *testing.T) {
	idx, err := NewIndex(newsTable(t))
	require.NoError(t, err)
	searcher, err := NewSearcher(idx, mock.NewMockEmbedder())
	require.NoError(t, err)

	matches, err := searcher.Similar(2, DefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, core.ID(1), matches[0].Article.Id)
}
