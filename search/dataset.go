package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/storage"
)

// Dataset loads an embedded article table and its Index on first use and
// serves the same instances for the rest of the process lifetime.
//
// A failed load is not memoized; the next call tries again.
type Dataset struct {
	store    storage.TableStore
	location string
	logger   *slog.Logger

	mu    sync.Mutex
	table *core.Table
	index *Index
}

// NewDataset creates a Dataset over the table stored at location.
func NewDataset(store storage.TableStore, location string) (*Dataset, error) {
	if store == nil {
		return nil, ErrTableStoreRequired
	}
	return &Dataset{
		store:    store,
		location: location,
		logger:   slog.Default().With("component", "dataset"),
	}, nil
}

// Location returns where the dataset is read from.
func (d *Dataset) Location() string {
	return d.location
}

// Load returns the table and its index, reading them on the first call.
func (d *Dataset) Load(ctx context.Context) (*core.Table, *Index, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.table != nil {
		return d.table, d.index, nil
	}

	table, err := d.store.Read(ctx, d.location,
		storage.ColumnID, storage.ColumnTitle, storage.ColumnBody, storage.ColumnEmbedding)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset %s: %w", d.location, err)
	}
	index, err := NewIndex(table)
	if err != nil {
		return nil, nil, fmt.Errorf("index dataset %s: %w", d.location, err)
	}

	d.logger.Info("dataset loaded", "location", d.location, "rows", table.Len(), "embedded", index.Len())
	d.table, d.index = table, index
	return table, index, nil
}

// Table returns the loaded table.
func (d *Dataset) Table(ctx context.Context) (*core.Table, error) {
	table, _, err := d.Load(ctx)
	return table, err
}

// Index returns the loaded index.
func (d *Dataset) Index(ctx context.Context) (*Index, error) {
	_, index, err := d.Load(ctx)
	return index, err
}
