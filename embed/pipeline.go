package embed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/newslens/ai"
	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/storage"
)

// Result summarizes a pipeline run.
type Result struct {
	// Resumed is true when the run started from an existing checkpoint.
	Resumed bool

	// Total is the number of rows in the table.
	Total int

	// Pending is the number of rows without an embedding when the run started.
	Pending int

	// Batches is the number of batches the pending rows were split into.
	Batches int

	// BatchesDone is the number of batches completed and checkpointed.
	BatchesDone int

	// Embedded is the number of rows that gained an embedding during the run.
	Embedded int

	// Cached is how many of the Embedded rows were served from the cache.
	Cached int

	// Failed lists rows whose embedding failed during the run.
	Failed []core.ID

	// Remaining is the number of rows still pending when the run ended.
	Remaining int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Pipeline runs the checkpointed batch embedding of an article table.
type Pipeline struct {
	store     storage.TableStore
	config    *Config
	pool      *ants.Pool
	processor *BatchProcessor
	progress  io.Writer
	showBar   bool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgress sets where human-readable progress lines are written.
// Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w == nil {
			w = io.Discard
		}
		p.progress = w
		return nil
	}
}

// WithProgressBar enables a per-record progress bar for each batch.
func WithProgressBar(enabled bool) Option {
	return func(p *Pipeline) error {
		p.showBar = enabled
		return nil
	}
}

// WithCache consults cache before calling the embedder and stores new
// embeddings in it. model scopes the cache entries.
func WithCache(cache storage.EmbeddingCache, model string) Option {
	return func(p *Pipeline) error {
		p.processor.cache = cache
		p.processor.model = model
		return nil
	}
}

// NewPipeline creates an embedding pipeline.
// The caller must call Release when done.
func NewPipeline(store storage.TableStore, embedder ai.Embedder, config *Config, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrTableStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(config.MaxWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	p := &Pipeline{
		store:    store,
		config:   config,
		pool:     pool,
		progress: io.Discard,
		logger:   slog.Default(),
		processor: &BatchProcessor{
			embedder:       embedder,
			pool:           pool,
			maxRetries:     config.MaxRetries,
			retryBaseDelay: config.RetryDelay,
			requestTimeout: config.RequestTimeout,
			dimensions:     config.Dimensions,
			normalize:      config.Normalize,
			failFast:       config.FailFast,
		},
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "embed-pipeline")
	p.processor.logger = p.logger

	return p, nil
}

// Release releases the worker pool.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Run embeds every pending row, checkpointing after each batch, then writes
// the final table.
//
// When a checkpoint exists the run resumes from it; otherwise it starts from
// the source table with every embedding cleared. Configuration and storage
// problems are returned before any embedding request is made. On error the
// returned Result describes the progress made up to that point.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	table, resumed, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	pending := table.Pending()
	batches := Partition(pending, p.config.BatchSize)
	res := &Result{
		Resumed: resumed,
		Total:   table.Len(),
		Pending: len(pending),
		Batches: len(batches),
	}

	if resumed {
		fmt.Fprintln(p.progress, "Resuming from partial embeddings file...")
	}
	fmt.Fprintf(p.progress, "Processing %d articles in %d batches...\n", len(pending), len(batches))
	p.logger.Info("starting embedding run",
		"resumed", resumed, "rows", res.Total, "pending", res.Pending,
		"batches", res.Batches, "batch_size", p.config.BatchSize, "workers", p.config.MaxWorkers)

	tracker := NewProgressTracker(p.progress, len(batches))
	tracker.Start()

	for i, batch := range batches {
		var bar *recordBar
		if p.showBar {
			bar = newRecordBar(p.progress, i+1, len(batches), len(batch))
		}

		outcome, err := p.processor.Process(ctx, table, batch, bar)
		bar.close(err == nil)
		res.Embedded += outcome.Embedded
		res.Cached += outcome.Cached
		res.Failed = append(res.Failed, outcome.Failed...)
		if err != nil {
			res.Remaining = len(table.Pending())
			res.Elapsed = time.Since(start)
			return res, fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}

		if err := p.store.Write(ctx, p.config.CheckpointPath, table); err != nil {
			res.Remaining = len(table.Pending())
			res.Elapsed = time.Since(start)
			return res, fmt.Errorf("write checkpoint %s: %w", p.config.CheckpointPath, err)
		}
		res.BatchesDone++

		eta := tracker.BatchDone()
		p.logger.Info("batch checkpointed",
			"batch", i+1, "batches", len(batches),
			"embedded", outcome.Embedded, "cached", outcome.Cached, "failed", len(outcome.Failed),
			"eta", eta.Round(time.Second))
	}

	if err := p.store.Write(ctx, p.config.FinalPath, table); err != nil {
		res.Remaining = len(table.Pending())
		res.Elapsed = time.Since(start)
		return res, fmt.Errorf("write final table %s: %w", p.config.FinalPath, err)
	}

	res.Remaining = len(table.Pending())
	res.Elapsed = time.Since(start)

	if res.Remaining > 0 {
		fmt.Fprintln(p.progress, color.YellowString(
			"%d articles still have no embedding; run again to retry them", res.Remaining))
		p.logger.Warn("embedding run finished with pending rows", "remaining", res.Remaining)
	} else {
		fmt.Fprintln(p.progress, color.GreenString("All embeddings saved successfully!"))
	}
	p.logger.Info("embedding run complete",
		"embedded", res.Embedded, "cached", res.Cached, "failed", len(res.Failed),
		"remaining", res.Remaining, "elapsed", res.Elapsed.Round(time.Second))

	return res, nil
}

// load returns the working table and whether it came from the checkpoint.
func (p *Pipeline) load(ctx context.Context) (*core.Table, bool, error) {
	exists, err := p.store.Exists(ctx, p.config.CheckpointPath)
	if err != nil {
		return nil, false, fmt.Errorf("check checkpoint %s: %w", p.config.CheckpointPath, err)
	}

	if !exists {
		table, err := p.store.Read(ctx, p.config.SourcePath, storage.ColumnTitle, storage.ColumnBody)
		if err != nil {
			return nil, false, fmt.Errorf("load source %s: %w", p.config.SourcePath, err)
		}
		table.ClearEmbeddings()
		return table, false, nil
	}

	// A checkpoint must carry its ids; positional ids are only assigned to sources.
	table, err := p.store.Read(ctx, p.config.CheckpointPath,
		storage.ColumnID, storage.ColumnTitle, storage.ColumnBody, storage.ColumnEmbedding)
	if err != nil {
		return nil, false, fmt.Errorf("load checkpoint %s: %w", p.config.CheckpointPath, err)
	}
	if err := core.ValidateTable(table, p.config.Dimensions); err != nil {
		return nil, false, fmt.Errorf("checkpoint %s: %w", p.config.CheckpointPath, err)
	}
	if err := p.verifyAgainstSource(ctx, table); err != nil {
		return nil, false, err
	}
	return table, true, nil
}

// verifyAgainstSource checks that the checkpoint holds the same rows as the
// source table, so resumed embeddings cannot be attributed to the wrong article.
// A missing source skips the check.
func (p *Pipeline) verifyAgainstSource(ctx context.Context, checkpoint *core.Table) error {
	exists, err := p.store.Exists(ctx, p.config.SourcePath)
	if err != nil {
		return fmt.Errorf("check source %s: %w", p.config.SourcePath, err)
	}
	if !exists {
		p.logger.Warn("source table missing; resuming without verification", "source", p.config.SourcePath)
		return nil
	}

	source, err := p.store.Read(ctx, p.config.SourcePath, storage.ColumnTitle, storage.ColumnBody)
	if err != nil {
		return fmt.Errorf("load source %s: %w", p.config.SourcePath, err)
	}

	if !checkpoint.SameIdentity(source) {
		return fmt.Errorf("%w: checkpoint has %d rows, source has %d, or their ids differ",
			ErrTableMismatch, checkpoint.Len(), source.Len())
	}
	for _, src := range source.Articles() {
		cp, _ := checkpoint.Get(src.Id)
		if cp.Title != src.Title || cp.Body != src.Body {
			return fmt.Errorf("%w: row %d text differs", ErrTableMismatch, src.Id)
		}
	}
	return nil
}
