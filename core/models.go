package core

import (
	"encoding/binary"
	"math"

	"github.com/go-crypt/x/blake2b"
)

// ID is the stable row identifier of an article.
// It is the join key between embedding results and the table and survives
// serialization as the "id" column.
type ID int64

// ContentKey generates a deterministic key from text content using BLAKE2b hashing.
// Identical content always produces identical keys.
func ContentKey(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Vector is a dense embedding. A nil or empty Vector means the embedding is absent.
type Vector []float32

// Present reports whether the vector holds an embedding.
func (v Vector) Present() bool {
	return len(v) > 0
}

// Norm returns the L2 norm of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalized returns a unit-length copy of the vector.
// A zero vector is returned unchanged.
func (v Vector) Normalized() Vector {
	norm := v.Norm()
	out := make(Vector, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Article is a single row of the news corpus.
// Embedding is populated by the embedding pipeline.
type Article struct {
	Id          ID     `parquet:"id"`
	URL         string `parquet:"url,optional"`
	Title       string `parquet:"title"`
	Author      string `parquet:"author,optional"`
	Category    string `parquet:"category,optional"`
	DateISO     string `parquet:"date_iso,optional"`
	Body        string `parquet:"body"`
	DateFromURL string `parquet:"date_from_url,optional"`
	Embedding   Vector `parquet:"embedding,optional,list"`
}

// Embedded reports whether the article carries an embedding.
func (a *Article) Embedded() bool {
	return a.Embedding.Present()
}

// EmbeddingText returns the text submitted to the embedding service for an article.
func EmbeddingText(a *Article) string {
	return a.Title + "\n" + a.Body
}

// Match is a similarity search hit.
type Match struct {
	Article *Article
	Score   float64
}
