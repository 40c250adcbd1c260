// Package parquet implements storage.TableStore on snappy-compressed Parquet files.
package parquet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/storage"
)

// Store reads and writes article tables as Parquet files.
// Locations are file paths.
type Store struct {
	logger *slog.Logger
}

var _ storage.TableStore = (*Store)(nil)

// NewStore creates a Parquet table store.
func NewStore() *Store {
	return &Store{
		logger: slog.Default().With("component", "parquet-store"),
	}
}

// Exists reports whether a regular file exists at location.
func (s *Store) Exists(ctx context.Context, location string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(location)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", location, err)
	}
	return info.Mode().IsRegular(), nil
}

// Read loads the table stored at location.
//
// Files without an "id" column get positional IDs 0..n-1, matching the row
// index of the file. Every other table written by Store carries its IDs.
func (s *Store) Read(ctx context.Context, location string, required ...string) (*core.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	columns, err := s.columns(location)
	if err != nil {
		return nil, err
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s has no %q column", storage.ErrSchemaMismatch, location, name)
		}
	}

	rows, err := parquet.ReadFile[core.Article](location)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", storage.ErrSerializationFailed, location, err)
	}

	_, hasID := columns[storage.ColumnID]
	articles := make([]*core.Article, len(rows))
	for i := range rows {
		if !hasID {
			rows[i].Id = core.ID(i)
		}
		if len(rows[i].Embedding) == 0 {
			rows[i].Embedding = nil
		}
		articles[i] = &rows[i]
	}

	table, err := core.NewTable(articles)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrSchemaMismatch, location, err)
	}

	s.logger.Debug("read table", "path", location, "rows", table.Len(), "positional_ids", !hasID)
	return table, nil
}

// Write atomically replaces the file at location with table.
// The rows are written to a temporary file in the same directory which is
// then renamed over location.
func (s *Store) Write(ctx context.Context, location string, table *core.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(location)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(location)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", location, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	rows := make([]core.Article, table.Len())
	for i, a := range table.Articles() {
		rows[i] = *a
	}

	if err := parquet.Write(tmp, rows, parquet.Compression(&parquet.Snappy)); err != nil {
		return fmt.Errorf("%w: writing %s: %w", storage.ErrSerializationFailed, location, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, location); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, location, err)
	}
	committed = true

	s.logger.Debug("wrote table", "path", location, "rows", len(rows))
	return nil
}

// columns returns the top-level column names of the file at location.
func (s *Store) columns(location string) (map[string]struct{}, error) {
	f, err := os.Open(location)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, location)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", location, err)
	}

	pf, err := parquet.OpenFile(f, info.Size(), parquet.SkipPageIndex(true), parquet.SkipBloomFilters(true))
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", storage.ErrSerializationFailed, location, err)
	}

	columns := make(map[string]struct{})
	for _, field := range pf.Schema().Fields() {
		columns[field.Name()] = struct{}{}
	}
	return columns, nil
}
