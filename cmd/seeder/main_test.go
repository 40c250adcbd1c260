package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTable(t *testing.T) {
	table, err := buildTable(linesFromSlice([]string{
		"Headline one\tFirst body.",
		"",
		"Headline only",
		"  Padded \t  body  ",
	}))
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	rows := table.Articles()
	assert.Equal(t, "Headline one", rows[0].Title)
	assert.Equal(t, "First body.", rows[0].Body)
	assert.Equal(t, "Headline only", rows[1].Title)
	assert.Empty(t, rows[1].Body)
	assert.Equal(t, "Padded", rows[2].Title)
	assert.Equal(t, "body", rows[2].Body)
	assert.Equal(t, int64(2), int64(rows[2].Id))
	assert.Equal(t, 0, table.EmbeddedCount())
}

func TestBuiltInStories(t *testing.T) {
	table, err := buildTable(linesFromSlice(stories))
	require.NoError(t, err)
	assert.Equal(t, len(stories), table.Len())
	for _, a := range table.Articles() {
		assert.NotEmpty(t, a.Title)
		assert.NotEmpty(t, a.Body)
	}
}

func TestLinesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stories.tsv")
	require.NoError(t, os.WriteFile(path, []byte("a\tb\nc\td\n"), 0644))

	lines, err := linesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a\tb", "c\td"}, slices.Collect(lines))

	_, err = linesFromFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
