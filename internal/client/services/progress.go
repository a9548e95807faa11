package services

import "sync"

// ProgressFunc receives upload progress in percent. Values are clamped to
// [0,100] and never decrease within one call.
type ProgressFunc func(percent float64)

// BatchProgressFunc receives overall batch progress together with the
// name of the file currently being transferred.
type BatchProgressFunc func(percent float64, filename string)

// progressTracker filters a stream of percentages down to a clamped,
// non-decreasing one. Updates may arrive from the transport goroutine.
type progressTracker struct {
	mu      sync.Mutex
	last    float64
	started bool
}

// advance reports the clamped value and whether it should be emitted.
func (t *progressTracker) advance(p float64) (float64, bool) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started && p <= t.last {
		return t.last, false
	}
	t.started = true
	t.last = p
	return p, true
}

// batchPercent pro-rates one file's progress into its equal 1/total slice.
func batchPercent(completed, total int, filePercent float64) float64 {
	if total <= 0 {
		return 100
	}
	return (float64(completed) + filePercent/100) / float64(total) * 100
}
