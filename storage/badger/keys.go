package badger

import "github.com/poiesic/newslens/storage"

// Key prefixes for different data types
const (
	embeddingPrefix = "emb:"
)

// makeEmbeddingKey generates the cache key for text embedded by model.
// Format: prefix + 8 byte content hash
func makeEmbeddingKey(model, text string) []byte {
	hash := storage.CacheKey(model, text)
	buf := make([]byte, len(embeddingPrefix)+len(hash))
	offset := copy(buf, embeddingPrefix)
	copy(buf[offset:], hash)
	return buf
}
