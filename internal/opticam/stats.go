package opticam

import (
	"sync"
	"time"
)

// PoolStats tracks frame pool counters with thread-safe operations. Stale
// reads are expected under normal operation — they mean the staleness
// detection is doing its job, not that frames were lost.
type PoolStats struct {
	mu         sync.Mutex
	frameCount int64
	byteCount  int64
	staleReads int64
	lastReset  time.Time
}

func (ps *PoolStats) reset() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.frameCount = 0
	ps.byteCount = 0
	ps.staleReads = 0
	ps.lastReset = time.Now()
}

// addFrame records one published frame and its payload size.
func (ps *PoolStats) addFrame(bytes int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.frameCount++
	ps.byteCount += int64(bytes)
}

// addStaleRead records a handle access that detected a recycled slot.
func (ps *PoolStats) addStaleRead() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.staleReads++
}

// GetAndReset returns current counters and resets them.
func (ps *PoolStats) GetAndReset() (frames, bytes, staleReads int64, duration time.Duration) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := time.Now()
	duration = now.Sub(ps.lastReset)
	frames = ps.frameCount
	bytes = ps.byteCount
	staleReads = ps.staleReads
	ps.frameCount = 0
	ps.byteCount = 0
	ps.staleReads = 0
	ps.lastReset = now
	return frames, bytes, staleReads, duration
}

// Totals returns current counters without resetting.
func (ps *PoolStats) Totals() (frames, bytes, staleReads int64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.frameCount, ps.byteCount, ps.staleReads
}
