package core

import "fmt"

// Table is an ordered collection of articles indexed by ID.
//
// A Table is not safe for concurrent mutation. The embedding pipeline funnels
// every write through a single goroutine.
type Table struct {
	rows  []*Article
	index map[ID]int
}

// NewTable builds a table from articles, preserving their order.
// Returns ErrDuplicateID if two articles share an ID.
func NewTable(articles []*Article) (*Table, error) {
	t := &Table{
		rows:  make([]*Article, 0, len(articles)),
		index: make(map[ID]int, len(articles)),
	}
	for _, a := range articles {
		if a == nil {
			return nil, fmt.Errorf("%w: nil article", ErrInvalidArticle)
		}
		if _, ok := t.index[a.Id]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, a.Id)
		}
		t.index[a.Id] = len(t.rows)
		t.rows = append(t.rows, a)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Articles returns the rows in table order.
// The returned slice must not be modified.
func (t *Table) Articles() []*Article {
	return t.rows
}

// Get returns the article with the given ID.
func (t *Table) Get(id ID) (*Article, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.rows[i], true
}

// IDs returns every row ID in table order.
func (t *Table) IDs() []ID {
	ids := make([]ID, len(t.rows))
	for i, a := range t.rows {
		ids[i] = a.Id
	}
	return ids
}

// Pending returns the IDs of rows without an embedding, in table order.
func (t *Table) Pending() []ID {
	var ids []ID
	for _, a := range t.rows {
		if !a.Embedded() {
			ids = append(ids, a.Id)
		}
	}
	return ids
}

// EmbeddedCount returns the number of rows carrying an embedding.
func (t *Table) EmbeddedCount() int {
	n := 0
	for _, a := range t.rows {
		if a.Embedded() {
			n++
		}
	}
	return n
}

// SetEmbedding stores vec on the row identified by id.
// Only absent embeddings may be set.
func (t *Table) SetEmbedding(id ID, vec Vector) error {
	a, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	if a.Embedded() {
		return fmt.Errorf("%w: %d", ErrAlreadyEmbedded, id)
	}
	if !vec.Present() {
		return fmt.Errorf("%w: %d", ErrEmptyEmbedding, id)
	}
	a.Embedding = vec
	return nil
}

// ClearEmbeddings drops every embedding in the table.
func (t *Table) ClearEmbeddings() {
	for _, a := range t.rows {
		a.Embedding = nil
	}
}

// SameIdentity reports whether other holds exactly the same set of row IDs.
func (t *Table) SameIdentity(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}
	for id := range t.index {
		if _, ok := other.index[id]; !ok {
			return false
		}
	}
	return true
}
