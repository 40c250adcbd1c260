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

// Package storage provides the storage abstraction layer for newslens.
//
// This package defines the interfaces that decouple persistence from the
// embedding pipeline and the search layer:
//
//   - TableStore: whole-table persistence of the article corpus (source,
//     checkpoint and final files)
//   - EmbeddingCache: content-addressed cache of previously computed embeddings
//   - VectorStore: downstream similarity store loaded from the final table
//
// # Implementations
//
//	store := parquet.NewStore()                  // storage.TableStore
//	cache, err := badger.OpenCache(path, false)  // storage.EmbeddingCache
//	vs, err := postgres.Open(ctx, cfg)           // storage.VectorStore
//
// # Atomicity
//
// TableStore.Write replaces the whole table at a location. Implementations
// must make the replacement atomic: a reader sees either the previous table
// or the new one, never a partial write. The embedding pipeline relies on
// this to survive being killed while a checkpoint is written.
//
// # Thread Safety
//
// EmbeddingCache and VectorStore implementations must be safe for concurrent
// use. TableStore calls are issued by a single goroutine.
package storage
