package search

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/poiesic/newslens/core"
)

type entry struct {
	article *core.Article
	unit    core.Vector
}

// Index ranks the embedded articles of a table by cosine similarity.
// It is read-only after construction and safe for concurrent use.
type Index struct {
	table   *core.Table
	entries []entry
	byID    map[core.ID]int
	dims    int
}

// NewIndex builds an index over every embedded row of table, in table order.
// Rows without an embedding are skipped.
func NewIndex(table *core.Table) (*Index, error) {
	if table == nil {
		return nil, core.ErrInvalidTable
	}

	idx := &Index{
		table: table,
		byID:  make(map[core.ID]int),
	}
	for _, a := range table.Articles() {
		if !a.Embedded() {
			continue
		}
		if idx.dims == 0 {
			idx.dims = len(a.Embedding)
		}
		if err := core.ValidateDimensions(a.Embedding, idx.dims); err != nil {
			return nil, fmt.Errorf("article %d: %w", a.Id, err)
		}
		idx.byID[a.Id] = len(idx.entries)
		idx.entries = append(idx.entries, entry{article: a, unit: a.Embedding.Normalized()})
	}
	return idx, nil
}

// Len returns the number of indexed articles.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Dimensions returns the embedding length of the indexed articles, or 0 for
// an empty index.
func (idx *Index) Dimensions() int {
	return idx.dims
}

// Similar returns up to k articles most similar to the article with the given
// id, best first. The article itself is never part of the result.
func (idx *Index) Similar(id core.ID, k int) ([]*core.Match, error) {
	pos, ok := idx.byID[id]
	if !ok {
		if _, exists := idx.table.Get(id); exists {
			return nil, fmt.Errorf("%w: %d", ErrNotEmbedded, id)
		}
		return nil, fmt.Errorf("%w: %d", ErrArticleNotFound, id)
	}
	return idx.rank(idx.entries[pos].unit, k, id, true), nil
}

// Nearest returns up to k articles most similar to vec, best first.
func (idx *Index) Nearest(vec core.Vector, k int) ([]*core.Match, error) {
	if !vec.Present() {
		return nil, core.ErrEmptyEmbedding
	}
	if err := core.ValidateDimensions(vec, idx.dims); err != nil {
		return nil, err
	}
	return idx.rank(vec.Normalized(), k, 0, false), nil
}

// rank scores every entry against unit and keeps the top k. Ties keep table order.
func (idx *Index) rank(unit core.Vector, k int, skip core.ID, skipSet bool) []*core.Match {
	if k <= 0 {
		return []*core.Match{}
	}

	matches := make([]*core.Match, 0, len(idx.entries))
	for _, e := range idx.entries {
		if skipSet && e.article.Id == skip {
			continue
		}
		matches = append(matches, &core.Match{Article: e.article, Score: dot(unit, e.unit)})
	}
	slices.SortStableFunc(matches, func(a, b *core.Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
