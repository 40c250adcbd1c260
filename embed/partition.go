package embed

import "github.com/poiesic/newslens/core"

// Partition splits ids into consecutive batches of at most size elements,
// preserving order. It returns ceil(len(ids)/size) batches; the last one may
// be short. Batches share the backing array of ids.
func Partition(ids []core.ID, size int) [][]core.ID {
	if size <= 0 || len(ids) == 0 {
		return nil
	}

	batches := make([][]core.ID, 0, (len(ids)+size-1)/size)
	for i := 0; i < len(ids); i += size {
		end := min(i+size, len(ids))
		batches = append(batches, ids[i:end:end])
	}
	return batches
}
