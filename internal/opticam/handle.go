package opticam

import "fmt"

// ImageHandle is a lightweight, copyable reference to a pooled frame slot
// plus the slot generation observed when the handle was created. It never
// owns the underlying storage: the producer recycles slots on its own
// timeline, and every accessor detects that lazily by comparing generations
// before trusting any field.
//
// Once a handle goes stale it stays stale; generations are monotonic and
// never reused. Accessors on a stale handle return documented defaults
// rather than reading through the recycled slot.
type ImageHandle struct {
	slot     *frameSlot
	observed int64
}

// IsValid reports whether the handle still references the frame it was
// created for. A zero handle (no backing slot) is invalid.
func (h ImageHandle) IsValid() bool {
	return h.slot != nil && h.slot.seq.Load() == h.observed
}

// stale is the accessor-side validity gate; it also counts detected stale
// reads for pool diagnostics.
func (h ImageHandle) stale() bool {
	if h.slot == nil {
		return true
	}
	if h.slot.seq.Load() != h.observed {
		h.slot.pool.stats.addStaleRead()
		return true
	}
	return false
}

// Generation returns the slot generation this handle observed, or 0 for a
// zero handle.
func (h ImageHandle) Generation() int64 {
	if h.slot == nil {
		return 0
	}
	return h.observed / 2
}

// PixelData returns a copy of the frame's pixel bytes, or nil if the handle
// is stale. The copy is re-validated against the slot generation after
// copying, so a recycle racing the copy yields nil instead of torn data.
func (h ImageHandle) PixelData() []byte {
	if h.stale() {
		return nil
	}
	out := make([]byte, len(h.slot.pixels))
	copy(out, h.slot.pixels)
	if h.slot.seq.Load() != h.observed {
		h.slot.pool.stats.addStaleRead()
		return nil
	}
	return out
}

// DistortionGrid returns the calibration grid for this frame's perspective,
// resolved through the pool's calibration cache. Returns nil if the handle
// is stale, the pool has no cache, or the cache has no matrix for the
// frame's key. The slice is shared and read-only.
func (h ImageHandle) DistortionGrid() []float32 {
	if h.stale() {
		return nil
	}
	cache := h.slot.pool.cache
	if cache == nil {
		return nil
	}
	m, err := cache.Get(h.slot.calibrationKey)
	if err != nil {
		debugf("[ImageHandle] distortion grid lookup failed: %v", err)
		return nil
	}
	return m.Grid()
}

// Width returns the frame width in pixels, or 0 if stale.
func (h ImageHandle) Width() int32 {
	if h.stale() {
		return 0
	}
	return h.slot.width
}

// Height returns the frame height in pixels, or 0 if stale.
func (h ImageHandle) Height() int32 {
	if h.stale() {
		return 0
	}
	return h.slot.height
}

// BytesPerPixel returns the pixel stride in bytes. The stale default is 1,
// not 0: stride feeds straight into length arithmetic and a zero stride
// turns arithmetic bugs into divide-by-zero faults.
func (h ImageHandle) BytesPerPixel() int32 {
	if h.stale() {
		return 1
	}
	return h.slot.bytesPerPixel
}

// Format returns the frame's pixel format, or FormatInfrared if stale.
func (h ImageHandle) Format() ImageFormat {
	if h.stale() {
		return FormatInfrared
	}
	return h.slot.format
}

// Perspective returns the frame's camera perspective, or PerspectiveInvalid
// if stale.
func (h ImageHandle) Perspective() Perspective {
	if h.stale() {
		return PerspectiveInvalid
	}
	return h.slot.perspective
}

// PerspectiveID returns the public camera id for this frame, or -1 if
// stale.
func (h ImageHandle) PerspectiveID() int32 {
	if h.stale() {
		return -1
	}
	return h.slot.perspective.PublicID()
}

// SequenceID returns the device frame id, or -1 if stale.
func (h ImageHandle) SequenceID() int64 {
	if h.stale() {
		return -1
	}
	return h.slot.sequenceID
}

// Timestamp returns the device capture timestamp in microseconds, or 0 if
// stale.
func (h ImageHandle) Timestamp() int64 {
	if h.stale() {
		return 0
	}
	return h.slot.timestamp
}

// CalibrationKey returns the frame's calibration key, or the zero key if
// stale.
func (h ImageHandle) CalibrationKey() CalibrationKey {
	if h.stale() {
		return ""
	}
	return h.slot.calibrationKey
}

// Equal reports whether two handles denote the same image: both must be
// valid and agree on (sequence id, public camera id, timestamp). A stale
// handle equals nothing, including itself.
func (h ImageHandle) Equal(o ImageHandle) bool {
	if !h.IsValid() || !o.IsValid() {
		return false
	}
	return h.SequenceID() == o.SequenceID() &&
		h.PerspectiveID() == o.PerspectiveID() &&
		h.Timestamp() == o.Timestamp()
}

func (h ImageHandle) String() string {
	if !h.IsValid() {
		return "Image(invalid)"
	}
	return fmt.Sprintf("Image(seq=%d camera=%d %dx%d fmt=%s t=%d)",
		h.SequenceID(), h.PerspectiveID(), h.Width(), h.Height(), h.Format(), h.Timestamp())
}
