package opticam

import "math"

// Warp maps a ray direction to the corresponding pixel coordinate in an
// image of the given target dimensions, correcting for lens distortion by
// bilinear interpolation over the calibration grid.
//
// The grid x scale is 63 (64 columns leave 63 cells of interpolation room)
// while the y scale is 62, reserving one extra row of margin; the grid
// y-origin is at the image bottom, hence the vertical flip. These constants
// are part of the device calibration contract and must not be "corrected"
// to symmetric values.
func Warp(ray RayDirection, targetWidth, targetHeight float32, m *CalibrationMatrix) PixelPoint {
	calX := 63 * ray.X / targetWidth
	calY := 62 * (1 - ray.Y/targetHeight)

	x1 := int(math.Floor(float64(calX)))
	y1 := int(math.Floor(float64(calY)))
	wx := calX - float32(x1)
	wy := calY - float32(y1)
	x2 := x1 + 1
	y2 := y1 + 1

	// Cell lookups clamp to the grid edge for rays outside the calibrated
	// field of view. The interpolation weights are left untouched so
	// in-range results are unaffected.
	x11, y11 := m.Cell(x1, y1)
	x21, y21 := m.Cell(x2, y1)
	x12, y12 := m.Cell(x1, y2)
	x22, y22 := m.Cell(x2, y2)

	w11 := (1 - wx) * (1 - wy)
	w21 := wx * (1 - wy)
	w12 := (1 - wx) * wy
	w22 := wx * wy

	ix := w11*x11 + w21*x21 + w12*x12 + w22*x22
	iy := w11*y11 + w21*y21 + w12*y12 + w22*y22

	return PixelPoint{X: ix * targetWidth, Y: iy * targetHeight, Z: 0}
}

// Rectify converts a pixel coordinate into normalized ray-slope space: the
// pixel is first distortion-corrected with Warp, then scaled by the
// matrix's ray offset/scale factors.
//
// The calibration grid encodes forward distortion only, so this is an
// approximation of the inverse mapping, not an exact round-trip of Warp.
func Rectify(px PixelPoint, m *CalibrationMatrix, width, height float32) RayDirection {
	warped := Warp(RayDirection{X: px.X, Y: px.Y}, width, height, m)
	return RayDirection{
		X: (warped.X/width - m.rayOffsetX) / m.rayScaleX,
		Y: (warped.Y/height - m.rayOffsetY) / m.rayScaleY,
	}
}
