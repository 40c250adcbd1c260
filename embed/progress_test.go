package embed

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstimateRemaining(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		done    int
		total   int
		want    time.Duration
	}{
		{"halfway", 10 * time.Minute, 2, 4, 10 * time.Minute},
		{"one of five", 30 * time.Second, 1, 5, 2 * time.Minute},
		{"finished", time.Hour, 3, 3, 0},
		{"nothing done", time.Minute, 0, 3, 0},
		{"no batches", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateRemaining(tt.elapsed, tt.done, tt.total))
		})
	}
}

func TestProgressTracker_BatchDone(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 3)

	tracker.Start()
	assert.True(t, tracker.started, "should be started")

	tracker.BatchDone()
	tracker.BatchDone()
	eta := tracker.BatchDone()

	assert.Equal(t, time.Duration(0), eta, "no time remains after the last batch")
	assert.Equal(t, 3, tracker.Done())

	output := buf.String()
	assert.Contains(t, output, "Batch 1/3 done. Estimated remaining time:")
	assert.Contains(t, output, "Batch 3/3 done. Estimated remaining time: 0.0 minutes\n")
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 3)

	assert.Equal(t, time.Duration(0), tracker.BatchDone())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
	assert.Empty(t, buf.String(), "should not report before Start")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)
	tracker.Start()
	tracker.BatchDone()
	tracker.BatchDone()
	assert.Equal(t, 1, tracker.Done())
}

func TestRecordBar_NilIsNoop(t *testing.T) {
	var bar *recordBar
	assert.NotPanics(t, func() {
		bar.add()
		bar.close(true)
	})
}

func TestRecordBar_Writes(t *testing.T) {
	var buf bytes.Buffer
	bar := newRecordBar(&buf, 1, 2, 3)
	assert.NotPanics(t, func() {
		bar.add()
		bar.add()
		bar.close(false)
	})
}
