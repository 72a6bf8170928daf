package opticam

import "fmt"

// Calibration grid geometry. The device ships one 64×64 grid of (x,y)
// reference points per camera perspective; each cell holds two float32
// channels stored row-major.
const (
	// GridSize is the edge length of the calibration grid in cells.
	GridSize = 64

	// gridChannels is the number of float32 channels per grid cell (x, y).
	gridChannels = 2

	// GridFloats is the total float32 count of a calibration grid.
	GridFloats = GridSize * GridSize * gridChannels

	// gridRowStride is the float32 stride between grid rows.
	gridRowStride = gridChannels * GridSize
)

// cellIndex returns the flat index of the x-channel for grid cell (x, y).
// The y-channel is at cellIndex(x, y)+1.
func cellIndex(x, y int) int {
	return x*gridChannels + y*gridRowStride
}

// CalibrationKey is the opaque stable identifier for a calibration matrix,
// derived from the device and frame id by the driver layer. All frames from
// the same device perspective share one key.
type CalibrationKey string

// CalibrationMatrix is an immutable lens-distortion calibration grid plus
// the scalar factors converting normalized [0,1] grid values into the
// [-4,4] ray-slope range. Instances are shared by every image from the same
// device perspective and must never be mutated after construction.
type CalibrationMatrix struct {
	key  CalibrationKey
	grid []float32 // len GridFloats, row-major, (x,y) per cell

	rayOffsetX float32
	rayOffsetY float32
	rayScaleX  float32
	rayScaleY  float32
}

// NewCalibrationMatrix copies grid into a new immutable matrix. The grid
// must contain exactly GridFloats values and both ray scales must be
// non-zero.
func NewCalibrationMatrix(key CalibrationKey, grid []float32, rayOffsetX, rayOffsetY, rayScaleX, rayScaleY float32) (*CalibrationMatrix, error) {
	if len(grid) != GridFloats {
		return nil, fmt.Errorf("calibration grid for %q has %d floats, want %d", key, len(grid), GridFloats)
	}
	if rayScaleX == 0 || rayScaleY == 0 {
		return nil, fmt.Errorf("calibration %q has zero ray scale (x=%g y=%g)", key, rayScaleX, rayScaleY)
	}
	m := &CalibrationMatrix{
		key:        key,
		grid:       make([]float32, GridFloats),
		rayOffsetX: rayOffsetX,
		rayOffsetY: rayOffsetY,
		rayScaleX:  rayScaleX,
		rayScaleY:  rayScaleY,
	}
	copy(m.grid, grid)
	return m, nil
}

// Key returns the stable identifier of this matrix.
func (m *CalibrationMatrix) Key() CalibrationKey { return m.key }

// Grid returns the underlying grid values. The slice is shared, not copied;
// callers must treat it as read-only.
func (m *CalibrationMatrix) Grid() []float32 { return m.grid }

// Cell returns the (x,y) channel values of grid cell (x, y). Indices are
// clamped to the grid, so rays projecting outside the calibrated field of
// view sample the nearest edge cell.
func (m *CalibrationMatrix) Cell(x, y int) (gx, gy float32) {
	x = clampCell(x)
	y = clampCell(y)
	i := cellIndex(x, y)
	return m.grid[i], m.grid[i+1]
}

// RayOffsetX returns the horizontal ray-slope offset factor.
func (m *CalibrationMatrix) RayOffsetX() float32 { return m.rayOffsetX }

// RayOffsetY returns the vertical ray-slope offset factor.
func (m *CalibrationMatrix) RayOffsetY() float32 { return m.rayOffsetY }

// RayScaleX returns the horizontal ray-slope scale factor.
func (m *CalibrationMatrix) RayScaleX() float32 { return m.rayScaleX }

// RayScaleY returns the vertical ray-slope scale factor.
func (m *CalibrationMatrix) RayScaleY() float32 { return m.rayScaleY }

func clampCell(i int) int {
	if i < 0 {
		return 0
	}
	if i > GridSize-1 {
		return GridSize - 1
	}
	return i
}
