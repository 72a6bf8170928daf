package opticam

import (
	"sync/atomic"
)

// DefaultSlotCount is the pool size used when the caller does not specify
// one. Eight slots cover the frame pipeline's producer lead at full device
// rate.
const DefaultSlotCount = 8

// FrameData is the payload the frame producer writes into a pool slot.
type FrameData struct {
	Pixels         []byte
	Width          int32
	Height         int32
	BytesPerPixel  int32
	Format         ImageFormat
	Perspective    Perspective
	SequenceID     int64 // device frame id
	Timestamp      int64 // device clock, microseconds
	CalibrationKey CalibrationKey
}

// frameSlot is one reusable arena slot. The sequence counter is odd while
// the producer is overwriting the payload and even once published; handles
// snapshot the published value and compare against it on every read, so a
// recycled slot is detected before any field is trusted.
type frameSlot struct {
	seq atomic.Int64

	pixels         []byte
	width          int32
	height         int32
	bytesPerPixel  int32
	format         ImageFormat
	perspective    Perspective
	sequenceID     int64
	timestamp      int64
	calibrationKey CalibrationKey

	pool *FramePool
}

// generation is the number of times this slot has been published.
func (s *frameSlot) generation() int64 { return s.seq.Load() / 2 }

// FramePool is a fixed-size arena of frame slots recycled round-robin by a
// single producer. Consumers hold ImageHandles and never mutate slots; the
// generation stamping makes staleness detection lock-free, so no mutex
// guards slot payloads.
type FramePool struct {
	slots []frameSlot
	next  int // producer-owned write cursor
	cache *CalibrationCache
	stats PoolStats
}

// NewFramePool creates a pool with slotCount slots (DefaultSlotCount when
// slotCount <= 0). The calibration cache may be nil if no handle will ask
// for its distortion grid.
func NewFramePool(slotCount int, cache *CalibrationCache) *FramePool {
	if slotCount <= 0 {
		slotCount = DefaultSlotCount
	}
	p := &FramePool{
		slots: make([]frameSlot, slotCount),
		cache: cache,
	}
	for i := range p.slots {
		p.slots[i].pool = p
	}
	p.stats.reset()
	return p
}

// SlotCount returns the number of slots in the arena.
func (p *FramePool) SlotCount() int { return len(p.slots) }

// Stats returns the pool's counters.
func (p *FramePool) Stats() *PoolStats { return &p.stats }

// Write recycles the next slot with fd and returns a handle observing the
// new generation. Must be called from the single producer goroutine only.
//
// The first sequence bump marks the overwrite in progress, so handles from
// earlier generations go stale before any payload byte changes; the second
// bump publishes the slot after the payload is fully written. Between the
// two bumps no handle for the new generation exists yet.
func (p *FramePool) Write(fd FrameData) ImageHandle {
	slot := &p.slots[p.next%len(p.slots)]
	p.next++

	slot.seq.Add(1)
	slot.pixels = append(slot.pixels[:0], fd.Pixels...)
	slot.width = fd.Width
	slot.height = fd.Height
	slot.bytesPerPixel = fd.BytesPerPixel
	slot.format = fd.Format
	slot.perspective = fd.Perspective
	slot.sequenceID = fd.SequenceID
	slot.timestamp = fd.Timestamp
	slot.calibrationKey = fd.CalibrationKey
	seq := slot.seq.Add(1)

	p.stats.addFrame(len(fd.Pixels))
	debugf("[FramePool] published frame seq=%d slot_gen=%d pixels=%d", fd.SequenceID, seq/2, len(fd.Pixels))

	return ImageHandle{slot: slot, observed: seq}
}
