package embed

import (
	"errors"
	"time"
)

// Config holds configuration for the embedding pipeline.
type Config struct {
	// SourcePath is the location of the input table.
	SourcePath string

	// CheckpointPath is where the working table is saved after every batch.
	CheckpointPath string

	// FinalPath is where the completed table is written.
	FinalPath string

	// BatchSize is the number of records per batch, and so per checkpoint.
	BatchSize int

	// MaxWorkers is the number of concurrent embedding requests.
	MaxWorkers int

	// MaxRetries is the maximum number of attempts per record.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration

	// RequestTimeout bounds a single embedding attempt. Zero disables it.
	RequestTimeout time.Duration

	// Dimensions is the required embedding length. Zero disables the check.
	Dimensions int

	// Normalize scales every embedding to unit length before storing it.
	Normalize bool

	// FailFast aborts the run on the first record that exhausts its retries.
	FailFast bool
}

// DefaultConfig returns a Config with the batch geometry of the news corpus run.
func DefaultConfig() *Config {
	return &Config{
		SourcePath:     "data/news_last_1_year.parquet",
		CheckpointPath: "data/news_with_embeddings_1yr_partial.parquet",
		FinalPath:      "data/news_with_embeddings_1yr.parquet",
		BatchSize:      200,
		MaxWorkers:     4,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		RequestTimeout: 2 * time.Minute,
		Dimensions:     768,
	}
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if c.SourcePath == "" {
		return errors.New("embed config: SourcePath is required")
	}
	if c.CheckpointPath == "" {
		return errors.New("embed config: CheckpointPath is required")
	}
	if c.FinalPath == "" {
		return errors.New("embed config: FinalPath is required")
	}
	if c.CheckpointPath == c.SourcePath || c.FinalPath == c.SourcePath {
		return errors.New("embed config: SourcePath must differ from CheckpointPath and FinalPath")
	}
	if c.BatchSize < 1 {
		return errors.New("embed config: BatchSize must be at least 1")
	}
	if c.MaxWorkers < 1 {
		return errors.New("embed config: MaxWorkers must be at least 1")
	}
	if c.MaxRetries < 1 {
		return errors.New("embed config: MaxRetries must be at least 1")
	}
	if c.RetryDelay < 0 || c.RequestTimeout < 0 {
		return errors.New("embed config: durations cannot be negative")
	}
	if c.Dimensions < 0 {
		return errors.New("embed config: Dimensions cannot be negative")
	}
	return nil
}
