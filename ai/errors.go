package ai

import "errors"

// ErrEmptyEmbedding indicates the service answered without a vector.
var ErrEmptyEmbedding = errors.New("embedding service returned no vector")
