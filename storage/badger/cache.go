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

package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/storage"
)

// Cache implements storage.EmbeddingCache on BadgerDB.
type Cache struct {
	backend *Backend
	owned   bool
}

var _ storage.EmbeddingCache = (*Cache)(nil)

// NewCache creates a cache over an existing backend.
// Closing the cache leaves the backend open.
func NewCache(backend *Backend) *Cache {
	return &Cache{
		backend: backend,
	}
}

// OpenCache opens a cache stored in dirPath.
// The returned cache owns its backend and closes it on Close.
func OpenCache(dirPath string, inMemory bool) (*Cache, error) {
	backend, err := OpenBackend(dirPath, inMemory)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	return &Cache{
		backend: backend,
		owned:   true,
	}, nil
}

// Get retrieves the embedding cached for text under model.
// Returns storage.ErrNotFound on a miss.
func (c *Cache) Get(ctx context.Context, model, text string) (core.Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var vec core.Vector
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingKey(model, text))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			vec, unmarshalErr = storage.UnmarshalVector(val)
			return unmarshalErr
		})
	}, false)

	return vec, err
}

// Put persists an embedding for text under model.
func (c *Cache) Put(ctx context.Context, model, text string, vec core.Vector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !vec.Present() {
		return fmt.Errorf("%w: refusing to cache empty vector", storage.ErrSerializationFailed)
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeEmbeddingKey(model, text), storage.MarshalVector(vec)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Len returns the number of cached embeddings.
func (c *Cache) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.backend.CountPrefix([]byte(embeddingPrefix))
}

// Close closes the backend if the cache owns it.
func (c *Cache) Close() error {
	if !c.owned || c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}
