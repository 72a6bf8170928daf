package opticam

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GridStats summarizes how far a calibration grid's reference points sit
// from the nominal undistorted grid. Used by the debug monitor and the
// grid-inspect tool to sanity-check device calibrations.
type GridStats struct {
	Key CalibrationKey `json:"key"`

	// CoverageRatio is the fraction of cells whose channels both lie in
	// [0,1]; values outside that range mean "no corresponding image data".
	CoverageRatio float64 `json:"coverage_ratio"`

	// Displacement statistics over covered cells, in normalized grid units.
	MeanDispX float64 `json:"mean_disp_x"`
	MeanDispY float64 `json:"mean_disp_y"`
	StdDispX  float64 `json:"std_disp_x"`
	StdDispY  float64 `json:"std_disp_y"`
	MaxDisp   float64 `json:"max_disp"`
}

// ComputeGridStats measures m's displacement from the identity grid, where
// cell (x, y) nominally holds (x/63, y/63).
func ComputeGridStats(m *CalibrationMatrix) GridStats {
	st := GridStats{Key: m.Key()}

	dispX := make([]float64, 0, GridSize*GridSize)
	dispY := make([]float64, 0, GridSize*GridSize)
	mags := make([]float64, 0, GridSize*GridSize)

	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			gx, gy := m.Cell(x, y)
			if gx < 0 || gx > 1 || gy < 0 || gy > 1 {
				continue
			}
			dx := float64(gx) - float64(x)/(GridSize-1)
			dy := float64(gy) - float64(y)/(GridSize-1)
			dispX = append(dispX, dx)
			dispY = append(dispY, dy)
			mags = append(mags, math.Hypot(dx, dy))
		}
	}

	st.CoverageRatio = float64(len(mags)) / float64(GridSize*GridSize)
	if len(mags) == 0 {
		return st
	}

	st.MeanDispX = stat.Mean(dispX, nil)
	st.MeanDispY = stat.Mean(dispY, nil)
	if len(dispX) > 1 {
		st.StdDispX = stat.StdDev(dispX, nil)
		st.StdDispY = stat.StdDev(dispY, nil)
	}
	st.MaxDisp = floats.Max(mags)
	return st
}
