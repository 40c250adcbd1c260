package embed

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/storage"
)

// memStore is an in-memory storage.TableStore that records every write.
type memStore struct {
	mu      sync.Mutex
	tables  map[string][]core.Article
	writes  []memWrite
	onWrite func(location string, table *core.Table) error
}

type memWrite struct {
	location string
	embedded int
}

func newMemStore() *memStore {
	return &memStore{tables: make(map[string][]core.Article)}
}

func cloneArticles(src []*core.Article) []core.Article {
	out := make([]core.Article, len(src))
	for i, a := range src {
		out[i] = *a
		if a.Embedding != nil {
			out[i].Embedding = append(core.Vector(nil), a.Embedding...)
		}
	}
	return out
}

func (m *memStore) put(location string, articles []*core.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[location] = cloneArticles(articles)
}

func (m *memStore) remove(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, location)
}

func (m *memStore) table(location string) *core.Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[location]
	if !ok {
		return nil
	}
	ptrs := make([]*core.Article, len(rows))
	for i := range rows {
		ptrs[i] = &rows[i]
	}
	t, _ := core.NewTable(cloneArticlePtrs(ptrs))
	return t
}

func cloneArticlePtrs(src []*core.Article) []*core.Article {
	rows := cloneArticles(src)
	out := make([]*core.Article, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

func (m *memStore) writesTo(location string) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var counts []int
	for _, w := range m.writes {
		if w.location == location {
			counts = append(counts, w.embedded)
		}
	}
	return counts
}

func (m *memStore) Exists(ctx context.Context, location string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tables[location]
	return ok, nil
}

func (m *memStore) Read(ctx context.Context, location string, required ...string) (*core.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := m.table(location)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, location)
	}
	return t, nil
}

func (m *memStore) Write(ctx context.Context, location string, table *core.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.onWrite != nil {
		if err := m.onWrite(location, table); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[location] = cloneArticles(table.Articles())
	m.writes = append(m.writes, memWrite{location: location, embedded: table.EmbeddedCount()})
	return nil
}

var _ storage.TableStore = (*memStore)(nil)
