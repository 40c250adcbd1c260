package embed

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// EstimateRemaining extrapolates the time left from the average batch time.
// Returns zero when nothing is done yet or nothing remains.
func EstimateRemaining(elapsed time.Duration, batchesDone, batchesTotal int) time.Duration {
	if batchesDone <= 0 || batchesTotal <= batchesDone {
		return 0
	}
	perBatch := elapsed / time.Duration(batchesDone)
	return perBatch * time.Duration(batchesTotal-batchesDone)
}

// ProgressTracker tracks and reports batch progress of an embedding run.
type ProgressTracker struct {
	writer    io.Writer
	total     int
	done      int
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: total number of batches to process
func NewProgressTracker(writer io.Writer, total int) *ProgressTracker {
	return &ProgressTracker{
		writer: writer,
		total:  total,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.done = 0
}

// BatchDone records a completed batch, prints the ETA line and returns the estimate.
func (p *ProgressTracker) BatchDone() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	if p.done < p.total {
		p.done++
	}
	eta := EstimateRemaining(time.Since(p.startTime), p.done, p.total)
	fmt.Fprintf(p.writer, "Batch %d/%d done. Estimated remaining time: %.1f minutes\n",
		p.done, p.total, eta.Minutes())
	return eta
}

// Done returns the number of completed batches.
func (p *ProgressTracker) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// recordBar shows per-record progress within a batch.
// A nil *recordBar is a valid no-op.
type recordBar struct {
	bar *progressbar.ProgressBar
}

func newRecordBar(w io.Writer, batch, batches, size int) *recordBar {
	return &recordBar{
		bar: progressbar.NewOptions(size,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(color.BlueString("Batch %d/%d", batch, batches)),
			progressbar.OptionSetItsString("records"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (r *recordBar) add() {
	if r == nil {
		return
	}
	_ = r.bar.Add(1)
}

// close finishes the bar, or stops it where it is when the batch was aborted.
func (r *recordBar) close(completed bool) {
	if r == nil {
		return
	}
	if completed {
		_ = r.bar.Finish()
		return
	}
	_ = r.bar.Exit()
}
