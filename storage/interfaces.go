package storage

import (
	"context"

	"github.com/poiesic/newslens/core"
)

// Column names shared by every table location.
const (
	ColumnID        = "id"
	ColumnTitle     = "title"
	ColumnBody      = "body"
	ColumnEmbedding = "embedding"
)

// TableStore persists whole article tables at named locations.
type TableStore interface {
	// Exists reports whether a table is stored at location.
	Exists(ctx context.Context, location string) (bool, error)

	// Read loads the table at location.
	// Returns ErrNotFound if nothing is stored there and ErrSchemaMismatch
	// if any of the required columns is missing.
	Read(ctx context.Context, location string, required ...string) (*core.Table, error)

	// Write atomically replaces the table at location.
	Write(ctx context.Context, location string, table *core.Table) error
}

// EmbeddingCache stores embeddings keyed by model and input text.
// Implementations must be thread-safe.
type EmbeddingCache interface {
	// Get returns the cached embedding for text under model.
	// Returns ErrNotFound on a cache miss.
	Get(ctx context.Context, model, text string) (core.Vector, error)

	// Put stores an embedding for text under model.
	Put(ctx context.Context, model, text string, vec core.Vector) error

	// Len returns the number of cached embeddings.
	Len(ctx context.Context) (int, error)

	// Close closes the cache and releases resources.
	Close() error
}

// VectorStore is a downstream similarity store fed from the final table.
// Implementations must be thread-safe.
type VectorStore interface {
	// EnsureSchema creates the store's schema if it does not already exist.
	EnsureSchema(ctx context.Context) error

	// Load upserts every embedded article of table.
	// Returns the number of rows written and the number skipped for lacking an embedding.
	Load(ctx context.Context, table *core.Table) (written int, skipped int, err error)

	// FindSimilar returns up to limit articles ordered by cosine similarity to vec.
	FindSimilar(ctx context.Context, vec core.Vector, limit int) ([]*core.Match, error)

	// Close closes the store and releases resources.
	Close() error
}
