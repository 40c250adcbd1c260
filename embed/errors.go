package embed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrTableStoreRequired is returned when no table store is supplied.
	ErrTableStoreRequired = errors.New("table store is required")

	// ErrEmbedderRequired is returned when no embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrTableMismatch indicates a checkpoint whose rows do not match the source table.
	ErrTableMismatch = errors.New("checkpoint does not match source table")

	// ErrRecordFailed indicates a record could not be embedded.
	ErrRecordFailed = errors.New("record embedding failed")
)
