// Package embed implements the resumable batch embedding pipeline.
//
// The pipeline turns a table of articles into a table whose rows also carry
// an embedding vector. Pending rows are split into fixed-size batches. Each
// batch fans out to a bounded worker pool, and the results come back over a
// channel to a single writer that updates the table. After every batch the
// whole table is written to a checkpoint, so a killed run resumes from the
// last completed batch without recomputing anything already embedded.
//
// Per-record failures are retried with exponential backoff. A record that
// still fails is logged and left pending, and the next run picks it up again.
// With Config.FailFast set the run aborts instead, before the batch is
// checkpointed.
package embed
