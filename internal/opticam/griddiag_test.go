package opticam

import (
	"math"
	"testing"
)

func TestComputeGridStats_IdentityGrid(t *testing.T) {
	m := SyntheticCalibration("dev/identity", 0)

	st := ComputeGridStats(m)
	if st.Key != "dev/identity" {
		t.Errorf("Key = %q", st.Key)
	}
	if st.CoverageRatio != 1 {
		t.Errorf("CoverageRatio = %v, want 1", st.CoverageRatio)
	}
	// Grid cells are float32, nominal positions are float64, so a rounding
	// residue on the order of 1e-8 is expected.
	if math.Abs(st.MeanDispX) > 1e-6 || math.Abs(st.MeanDispY) > 1e-6 {
		t.Errorf("mean displacement = (%v, %v), want ≈(0, 0)", st.MeanDispX, st.MeanDispY)
	}
	if st.MaxDisp > 1e-6 {
		t.Errorf("MaxDisp = %v, want ≈0", st.MaxDisp)
	}
}

func TestComputeGridStats_BarrelDistortion(t *testing.T) {
	m := SyntheticCalibration("dev/barrel", 0.2)

	st := ComputeGridStats(m)
	if st.CoverageRatio != 1 {
		t.Errorf("CoverageRatio = %v, want 1 for strength 0.2", st.CoverageRatio)
	}
	if st.MaxDisp <= 0 {
		t.Errorf("MaxDisp = %v, want > 0 for a distorted grid", st.MaxDisp)
	}
	if st.StdDispX <= 0 || st.StdDispY <= 0 {
		t.Errorf("std displacement = (%v, %v), want > 0", st.StdDispX, st.StdDispY)
	}
	// The barrel displacement is symmetric about the grid centre, so the
	// means stay near zero even though individual cells move.
	if math.Abs(st.MeanDispX) > 1e-3 || math.Abs(st.MeanDispY) > 1e-3 {
		t.Errorf("mean displacement = (%v, %v), want ≈(0, 0)", st.MeanDispX, st.MeanDispY)
	}

	// The corner cell moves furthest: displacement strength*r2*d with
	// d = 0.5 and r2 = 0.5 on both axes.
	wantCorner := math.Hypot(0.2*0.5*0.5, 0.2*0.5*0.5)
	if math.Abs(st.MaxDisp-wantCorner) > 1e-4 {
		t.Errorf("MaxDisp = %v, want ≈%v", st.MaxDisp, wantCorner)
	}
}

// TestComputeGridStats_Coverage: cells outside [0,1] are excluded from the
// statistics and lower the coverage ratio.
func TestComputeGridStats_Coverage(t *testing.T) {
	grid := make([]float32, GridFloats)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			setCell(grid, x, y, float32(x)/(GridSize-1), float32(y)/(GridSize-1))
		}
	}
	// Push one full row out of range.
	for x := 0; x < GridSize; x++ {
		setCell(grid, x, 10, -2, 0.5)
	}
	m, err := NewCalibrationMatrix("dev/partial", grid, 0.5, 0.5, 0.125, 0.125)
	if err != nil {
		t.Fatalf("NewCalibrationMatrix failed: %v", err)
	}

	st := ComputeGridStats(m)
	want := float64(GridSize*GridSize-GridSize) / float64(GridSize*GridSize)
	if st.CoverageRatio != want {
		t.Errorf("CoverageRatio = %v, want %v", st.CoverageRatio, want)
	}
	// The excluded row must not pollute the displacement stats.
	if st.MaxDisp > 1e-6 {
		t.Errorf("MaxDisp = %v, want ≈0 with out-of-range row excluded", st.MaxDisp)
	}
}

func TestComputeGridStats_EmptyCoverage(t *testing.T) {
	grid := make([]float32, GridFloats)
	for i := range grid {
		grid[i] = -5
	}
	m, err := NewCalibrationMatrix("dev/empty", grid, 0.5, 0.5, 0.125, 0.125)
	if err != nil {
		t.Fatalf("NewCalibrationMatrix failed: %v", err)
	}

	st := ComputeGridStats(m)
	if st.CoverageRatio != 0 {
		t.Errorf("CoverageRatio = %v, want 0", st.CoverageRatio)
	}
	if st.MaxDisp != 0 || st.MeanDispX != 0 {
		t.Errorf("stats on empty coverage = %+v, want zeros", st)
	}
}
