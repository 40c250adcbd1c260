package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/newslens/ai"
	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/storage"
)

// result is what a worker reports for one record.
type result struct {
	id     core.ID
	vec    core.Vector
	cached bool
	err    error
}

// BatchOutcome summarizes one processed batch.
type BatchOutcome struct {
	Embedded int
	Cached   int
	Failed   []core.ID
}

// BatchProcessor embeds one batch at a time on a bounded worker pool.
//
// Workers never touch the table. Each one sends its result on a channel and
// the goroutine calling Process applies every result, so the table has a
// single writer.
type BatchProcessor struct {
	embedder       ai.Embedder
	pool           *ants.Pool
	cache          storage.EmbeddingCache
	model          string
	maxRetries     int
	retryBaseDelay time.Duration
	requestTimeout time.Duration
	dimensions     int
	normalize      bool
	failFast       bool
	logger         *slog.Logger
}

// Process embeds every record of batch and writes the vectors into table.
//
// It returns once a result has arrived for every record. Records that fail
// after all retries stay pending and are listed in the outcome. With
// fail-fast enabled the first failure cancels the rest of the batch and
// Process returns ErrRecordFailed. A canceled ctx returns ctx.Err() with the
// table partially updated.
func (bp *BatchProcessor) Process(ctx context.Context, table *core.Table, batch []core.ID, bar *recordBar) (*BatchOutcome, error) {
	outcome := &BatchOutcome{}
	if len(batch) == 0 {
		return outcome, nil
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so workers never block after the controller stops reading.
	results := make(chan result, len(batch))

	for _, id := range batch {
		article, ok := table.Get(id)
		if !ok {
			return outcome, fmt.Errorf("%w: %d", core.ErrUnknownID, id)
		}
		id, text := id, core.EmbeddingText(article)

		err := bp.pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					results <- result{id: id, err: fmt.Errorf("embedding worker panic: %v", r)}
				}
			}()
			results <- bp.embedOne(batchCtx, id, text)
		})
		if err != nil {
			return outcome, fmt.Errorf("submit record %d: %w", id, err)
		}
	}

	for received := 0; received < len(batch); received++ {
		var r result
		select {
		case <-ctx.Done():
			return outcome, ctx.Err()
		case r = <-results:
		}
		bar.add()

		if r.err != nil {
			bp.logger.Warn("record embedding failed", "id", r.id, "err", r.err)
			outcome.Failed = append(outcome.Failed, r.id)
			if bp.failFast {
				return outcome, fmt.Errorf("%w: record %d: %w", ErrRecordFailed, r.id, r.err)
			}
			continue
		}

		if err := table.SetEmbedding(r.id, r.vec); err != nil {
			return outcome, fmt.Errorf("apply embedding for record %d: %w", r.id, err)
		}
		outcome.Embedded++
		if r.cached {
			outcome.Cached++
		}
	}

	return outcome, nil
}

// embedOne produces the embedding for a single record, consulting the cache first.
func (bp *BatchProcessor) embedOne(ctx context.Context, id core.ID, text string) result {
	if vec, ok := bp.lookup(ctx, text); ok {
		return result{id: id, vec: vec, cached: true}
	}

	var vec core.Vector
	err := RetryWithBackoff(ctx, func() error {
		attemptCtx := ctx
		if bp.requestTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, bp.requestTimeout)
			defer cancel()
		}

		raw, err := bp.embedder.EmbedText(attemptCtx, text)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			return core.ErrEmptyEmbedding
		}
		if err := core.ValidateDimensions(raw, bp.dimensions); err != nil {
			return Permanent(err)
		}
		vec = raw
		return nil
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return result{id: id, err: err}
	}

	if bp.normalize {
		vec = vec.Normalized()
	}
	bp.store(ctx, text, vec)
	return result{id: id, vec: vec}
}

func (bp *BatchProcessor) lookup(ctx context.Context, text string) (core.Vector, bool) {
	if bp.cache == nil {
		return nil, false
	}
	vec, err := bp.cache.Get(ctx, bp.model, text)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			bp.logger.Warn("embedding cache lookup failed", "err", err)
		}
		return nil, false
	}
	if core.ValidateDimensions(vec, bp.dimensions) != nil {
		bp.logger.Debug("ignoring cached embedding with wrong dimensions", "len", len(vec))
		return nil, false
	}
	return vec, true
}

func (bp *BatchProcessor) store(ctx context.Context, text string, vec core.Vector) {
	if bp.cache == nil {
		return
	}
	if err := bp.cache.Put(ctx, bp.model, text, vec); err != nil {
		bp.logger.Warn("embedding cache store failed", "err", err)
	}
}
