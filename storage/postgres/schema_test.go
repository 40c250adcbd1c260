package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSchema(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnString = "postgres://localhost/test"

	ddl, err := renderSchema(cfg)
	require.NoError(t, err)

	assert.Contains(t, ddl, "CREATE EXTENSION IF NOT EXISTS vector")
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "news_articles"`)
	assert.Contains(t, ddl, "embedding VECTOR(768)")
	assert.Contains(t, ddl, `CREATE INDEX IF NOT EXISTS "news_articles_embedding_idx"`)
	assert.Contains(t, ddl, "USING ivfflat (embedding vector_cosine_ops)")
	assert.Contains(t, ddl, "WITH (lists = 100)")
}

func TestRenderSchema_QuotesIdentifiers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Table = `evil"; DROP TABLE users; --`
	cfg.Dimensions = 384
	cfg.Lists = 10

	ddl, err := renderSchema(cfg)
	require.NoError(t, err)

	assert.Contains(t, ddl, `"evil""; DROP TABLE users; --"`)
	assert.False(t, strings.Contains(ddl, `evil"; DROP`), "identifier must be escaped")
	assert.Contains(t, ddl, "VECTOR(384)")
	assert.Contains(t, ddl, "lists = 10")
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	valid.ConnString = "postgres://localhost/news"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing conn string", mutate: func(c *Config) { c.ConnString = "" }, wantErr: "ConnString is required"},
		{name: "missing table", mutate: func(c *Config) { c.Table = "" }, wantErr: "Table is required"},
		{name: "zero dimensions", mutate: func(c *Config) { c.Dimensions = 0 }, wantErr: "Dimensions must be positive"},
		{name: "zero lists", mutate: func(c *Config) { c.Lists = 0 }, wantErr: "Lists must be positive"},
		{name: "zero batch", mutate: func(c *Config) { c.BatchSize = 0 }, wantErr: "BatchSize must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	got := nullable("x")
	require.NotNil(t, got)
	assert.Equal(t, "x", *got)
}
