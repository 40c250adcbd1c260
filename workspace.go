// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package newslens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/newslens/ai"
	"github.com/poiesic/newslens/ai/ollama"
	"github.com/poiesic/newslens/ai/openai"
	"github.com/poiesic/newslens/config"
	"github.com/poiesic/newslens/embed"
	"github.com/poiesic/newslens/search"
	"github.com/poiesic/newslens/storage"
	"github.com/poiesic/newslens/storage/badger"
	"github.com/poiesic/newslens/storage/parquet"
	"github.com/poiesic/newslens/storage/postgres"
)

// Workspace ties the configured table store, embedding provider, cache and
// dataset together for one set of article tables.
type Workspace struct {
	config   *config.Config
	store    storage.TableStore
	provider ai.AIProvider
	cache    *badger.Cache
	dataset  *search.Dataset
	logger   *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	provider ai.AIProvider
	store    storage.TableStore
}

// WithProvider uses provider instead of one built from the configuration.
// The workspace takes ownership and closes it on Close.
func WithProvider(provider ai.AIProvider) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.provider = provider
	}
}

// WithTableStore uses store instead of the Parquet store.
func WithTableStore(store storage.TableStore) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.store = store
	}
}

// NewProvider creates the embedding provider named by cfg.Provider.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return openai.NewProvider(cfg)
	default:
		return ollama.NewProvider(cfg)
	}
}

// Open creates a workspace from cfg. A nil cfg uses config.Default().
func Open(cfg *config.Config, opts ...WorkspaceOption) (*Workspace, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &workspaceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	store := options.store
	if store == nil {
		store = parquet.NewStore()
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = NewProvider(cfg.AI())
		if err != nil {
			return nil, err
		}
	}

	var cache *badger.Cache
	if cfg.Cache.Enabled {
		var err error
		cache, err = badger.OpenCache(cfg.Cache.Dir, false)
		if err != nil {
			provider.Close()
			return nil, err
		}
	}

	dataset, err := search.NewDataset(store, cfg.Data.Final)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		provider.Close()
		return nil, err
	}

	return &Workspace{
		config:   cfg,
		store:    store,
		provider: provider,
		cache:    cache,
		dataset:  dataset,
		logger:   slog.Default().With("component", "workspace"),
	}, nil
}

// Close releases the provider and the embedding cache.
func (w *Workspace) Close() error {
	var errs []error
	if err := w.provider.Close(); err != nil {
		w.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if w.cache != nil {
		if err := w.cache.Close(); err != nil {
			w.logger.Error("error closing embedding cache", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *Workspace) Config() *config.Config {
	return w.config
}

func (w *Workspace) TableStore() storage.TableStore {
	return w.store
}

func (w *Workspace) Provider() ai.AIProvider {
	return w.provider
}

// Dataset returns the memoized final table shared by every reader.
func (w *Workspace) Dataset() *search.Dataset {
	return w.dataset
}

// NewPipeline creates an embedding pipeline over the workspace tables.
// The embedding cache, when enabled, is attached before opts are applied.
// The caller must call Release on the pipeline.
func (w *Workspace) NewPipeline(opts ...embed.Option) (*embed.Pipeline, error) {
	if w.cache != nil {
		opts = append([]embed.Option{embed.WithCache(w.cache, w.provider.Model())}, opts...)
	}
	return embed.NewPipeline(w.store, w.provider.Embedder(), w.config.Embed(), opts...)
}

// NewSearcher creates a searcher over the final table, loading it if needed.
func (w *Workspace) NewSearcher(ctx context.Context, opts ...search.Option) (*search.Searcher, error) {
	index, err := w.dataset.Index(ctx)
	if err != nil {
		return nil, err
	}
	return search.NewSearcher(index, w.provider.Embedder(), opts...)
}

// OpenVectorStore connects to the configured pgvector database.
// The caller must close the store.
func (w *Workspace) OpenVectorStore(ctx context.Context) (*postgres.Store, error) {
	return postgres.Open(ctx, w.config.Postgres())
}

// TableStatus describes one stored table.
type TableStatus struct {
	Location string
	Exists   bool
	Rows     int
	Embedded int
}

// Status reports the state of the source, checkpoint and final tables.
type Status struct {
	Source     TableStatus
	Checkpoint TableStatus
	Final      TableStatus
}

// Status inspects the workspace tables without modifying them.
func (w *Workspace) Status(ctx context.Context) (*Status, error) {
	var st Status
	for _, t := range []struct {
		out      *TableStatus
		location string
		required []string
	}{
		{&st.Source, w.config.Data.Source, []string{storage.ColumnTitle, storage.ColumnBody}},
		{&st.Checkpoint, w.config.Data.Checkpoint, []string{storage.ColumnID, storage.ColumnEmbedding}},
		{&st.Final, w.config.Data.Final, []string{storage.ColumnID, storage.ColumnEmbedding}},
	} {
		t.out.Location = t.location
		exists, err := w.store.Exists(ctx, t.location)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		table, err := w.store.Read(ctx, t.location, t.required...)
		if err != nil {
			return nil, fmt.Errorf("status of %s: %w", t.location, err)
		}
		t.out.Exists = true
		t.out.Rows = table.Len()
		if t.out != &st.Source {
			t.out.Embedded = table.EmbeddedCount()
		}
	}
	return &st, nil
}
