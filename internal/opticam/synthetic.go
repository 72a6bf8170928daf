package opticam

// SyntheticCalibration builds a calibration matrix with a symmetric barrel
// distortion of the given strength (0 = identity grid). Used by the offline
// tools and tests as a stand-in for a real device grid; real calibrations
// come from the driver layer or the calibration store.
func SyntheticCalibration(key CalibrationKey, strength float32) *CalibrationMatrix {
	grid := make([]float32, GridFloats)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			nx := float32(x) / (GridSize - 1)
			ny := float32(y) / (GridSize - 1)
			// Radial displacement grows quadratically from the grid centre.
			dx := nx - 0.5
			dy := ny - 0.5
			r2 := dx*dx + dy*dy
			i := cellIndex(x, y)
			grid[i] = nx + strength*r2*dx
			grid[i+1] = ny + strength*r2*dy
		}
	}
	// Offset 0.5, scale 0.125: (v - offset)/scale maps normalized grid
	// values [0,1] onto the [-4,4] ray-slope range.
	m, err := NewCalibrationMatrix(key, grid, 0.5, 0.5, 0.125, 0.125)
	if err != nil {
		// Grid length and scales are fixed above; this cannot fail.
		panic(err)
	}
	return m
}
