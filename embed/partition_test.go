package embed

import (
	"testing"

	"github.com/poiesic/newslens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []core.ID {
	out := make([]core.ID, n)
	for i := range out {
		out[i] = core.ID(100 + i)
	}
	return out
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		size      int
		wantSizes []int
	}{
		{"empty", 0, 3, nil},
		{"exact multiple", 6, 3, []int{3, 3}},
		{"short last batch", 5, 2, []int{2, 2, 1}},
		{"single batch", 4, 200, []int{4}},
		{"batch size one", 3, 1, []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := ids(tt.n)
			batches := Partition(input, tt.size)

			require.Len(t, batches, len(tt.wantSizes), "batch count must be ceil(n/size)")

			var flattened []core.ID
			for i, b := range batches {
				assert.Len(t, b, tt.wantSizes[i])
				flattened = append(flattened, b...)
			}
			if tt.n > 0 {
				assert.Equal(t, input, flattened, "every id appears once, in order")
			}
		})
	}
}

func TestPartition_InvalidSize(t *testing.T) {
	assert.Nil(t, Partition(ids(3), 0))
	assert.Nil(t, Partition(ids(3), -1))
}

func TestPartition_BatchesDoNotOverlapOnAppend(t *testing.T) {
	batches := Partition(ids(4), 2)
	require.Len(t, batches, 2)

	_ = append(batches[0], 999)
	assert.Equal(t, core.ID(102), batches[1][0], "appending to a batch must not clobber the next")
}
