package embed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/poiesic/newslens/ai/mock"
	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/storage"
	pqstore "github.com/poiesic/newslens/storage/parquet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type newsRow struct {
	URL      string `parquet:"url,optional"`
	Title    string `parquet:"title"`
	Author   string `parquet:"author,optional"`
	Category string `parquet:"category,optional"`
	Body     string `parquet:"body"`
}

// partialRow is a checkpoint row that identifies articles by position only.
type partialRow struct {
	Title     string    `parquet:"title"`
	Body      string    `parquet:"body"`
	Embedding []float32 `parquet:"embedding,optional,list"`
}

type headlineRow struct {
	Title string `parquet:"title"`
}

func parquetConfig(dir string) *Config {
	cfg := testConfig()
	cfg.SourcePath = filepath.Join(dir, "news.parquet")
	cfg.CheckpointPath = filepath.Join(dir, "out", "partial.parquet")
	cfg.FinalPath = filepath.Join(dir, "out", "final.parquet")
	return cfg
}

func TestPipeline_ParquetEndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := parquetConfig(t.TempDir())

	rows := make([]newsRow, 5)
	for i := range rows {
		rows[i] = newsRow{
			URL:      fmt.Sprintf("https://example.com/%d", i),
			Title:    fmt.Sprintf("headline %d", i),
			Category: "politics",
			Body:     fmt.Sprintf("story %d", i),
		}
	}
	require.NoError(t, parquet.WriteFile(cfg.SourcePath, rows))

	store := pqstore.NewStore()
	embedder := mock.NewMockEmbedderWithDimensions(testDims)
	p, err := NewPipeline(store, embedder, cfg)
	require.NoError(t, err)
	defer p.Release()

	res, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Embedded)
	assert.Equal(t, 3, res.BatchesDone)

	final, err := store.Read(ctx, cfg.FinalPath, storage.ColumnID, storage.ColumnEmbedding)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{0, 1, 2, 3, 4}, final.IDs())
	for i, a := range final.Articles() {
		assert.Equal(t, rows[i].Title, a.Title)
		assert.Equal(t, rows[i].URL, a.URL)
		assert.Equal(t, "politics", a.Category)
		assert.Len(t, a.Embedding, testDims)
	}

	exists, err := store.Exists(ctx, cfg.CheckpointPath)
	require.NoError(t, err)
	assert.True(t, exists)

	// A second run resumes from the checkpoint and does no work.
	again := mock.NewMockEmbedderWithDimensions(testDims)
	p2, err := NewPipeline(store, again, cfg)
	require.NoError(t, err)
	defer p2.Release()

	res, err = p2.Run(ctx)
	require.NoError(t, err)
	assert.True(t, res.Resumed)
	assert.Equal(t, 0, again.CallCount())
}

func TestPipeline_ParquetSchemaMismatch(t *testing.T) {
	cfg := parquetConfig(t.TempDir())
	require.NoError(t, parquet.WriteFile(cfg.SourcePath, []headlineRow{{Title: "no body"}}))

	embedder := mock.NewMockEmbedderWithDimensions(testDims)
	p, err := NewPipeline(pqstore.NewStore(), embedder, cfg)
	require.NoError(t, err)
	defer p.Release()

	_, err = p.Run(context.Background())
	assert.ErrorIs(t, err, storage.ErrSchemaMismatch)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestPipeline_CheckpointWithoutIDsIsRejected(t *testing.T) {
	cfg := parquetConfig(t.TempDir())
	require.NoError(t, parquet.WriteFile(cfg.SourcePath, []newsRow{
		{Title: "a", Body: "one"},
		{Title: "b", Body: "two"},
	}))
	store := pqstore.NewStore()
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.CheckpointPath), 0o755))
	require.NoError(t, parquet.WriteFile(cfg.CheckpointPath, []partialRow{
		{Title: "a", Body: "one", Embedding: []float32{1, 0}},
		{Title: "b", Body: "two"},
	}))

	embedder := mock.NewMockEmbedderWithDimensions(testDims)
	p, err := NewPipeline(store, embedder, cfg)
	require.NoError(t, err)
	defer p.Release()

	_, err = p.Run(context.Background())
	assert.ErrorIs(t, err, storage.ErrSchemaMismatch)
	assert.Equal(t, 0, embedder.CallCount())

	exists, err := store.Exists(context.Background(), cfg.FinalPath)
	require.NoError(t, err)
	assert.False(t, exists)
}
