package opticam

import (
	"strings"
	"testing"
)

func TestNewCalibrationMatrix_Validation(t *testing.T) {
	good := make([]float32, GridFloats)

	if _, err := NewCalibrationMatrix("dev/left", good, 0.5, 0.5, 0.125, 0.125); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	if _, err := NewCalibrationMatrix("dev/left", make([]float32, GridFloats-1), 0.5, 0.5, 0.125, 0.125); err == nil {
		t.Error("short grid accepted")
	}
	if _, err := NewCalibrationMatrix("dev/left", make([]float32, GridFloats+2), 0.5, 0.5, 0.125, 0.125); err == nil {
		t.Error("long grid accepted")
	}
	if _, err := NewCalibrationMatrix("dev/left", nil, 0.5, 0.5, 0.125, 0.125); err == nil {
		t.Error("nil grid accepted")
	}
	if _, err := NewCalibrationMatrix("dev/left", good, 0.5, 0.5, 0, 0.125); err == nil {
		t.Error("zero x scale accepted")
	}
	if _, err := NewCalibrationMatrix("dev/left", good, 0.5, 0.5, 0.125, 0); err == nil {
		t.Error("zero y scale accepted")
	}

	_, err := NewCalibrationMatrix("dev/left", nil, 0.5, 0.5, 0.125, 0.125)
	if err == nil || !strings.Contains(err.Error(), "dev/left") {
		t.Errorf("error %v does not name the calibration key", err)
	}
}

// TestCalibrationMatrix_CopiesGrid: mutating the caller's slice after
// construction must not affect the matrix.
func TestCalibrationMatrix_CopiesGrid(t *testing.T) {
	grid := make([]float32, GridFloats)
	setCell(grid, 3, 5, 0.25, 0.75)

	m, err := NewCalibrationMatrix("dev/left", grid, 0.5, 0.5, 0.125, 0.125)
	if err != nil {
		t.Fatalf("NewCalibrationMatrix failed: %v", err)
	}

	setCell(grid, 3, 5, 0.99, 0.99)

	gx, gy := m.Cell(3, 5)
	if gx != 0.25 || gy != 0.75 {
		t.Errorf("Cell(3,5) = (%v, %v) after caller mutation, want (0.25, 0.75)", gx, gy)
	}
}

func TestCalibrationMatrix_Accessors(t *testing.T) {
	grid := make([]float32, GridFloats)
	m, err := NewCalibrationMatrix("dev/right", grid, 0.5, 0.4, 0.125, 0.25)
	if err != nil {
		t.Fatalf("NewCalibrationMatrix failed: %v", err)
	}

	if got := m.Key(); got != "dev/right" {
		t.Errorf("Key = %q", got)
	}
	if len(m.Grid()) != GridFloats {
		t.Errorf("Grid len = %d, want %d", len(m.Grid()), GridFloats)
	}
	if m.RayOffsetX() != 0.5 || m.RayOffsetY() != 0.4 || m.RayScaleX() != 0.125 || m.RayScaleY() != 0.25 {
		t.Errorf("ray factors = (%v, %v, %v, %v)",
			m.RayOffsetX(), m.RayOffsetY(), m.RayScaleX(), m.RayScaleY())
	}
}

// TestCalibrationMatrix_CellClamps: out-of-range indices sample the nearest
// edge cell.
func TestCalibrationMatrix_CellClamps(t *testing.T) {
	grid := make([]float32, GridFloats)
	setCell(grid, 0, 0, 0.1, 0.2)
	setCell(grid, 63, 0, 0.3, 0.4)
	setCell(grid, 0, 63, 0.5, 0.6)
	setCell(grid, 63, 63, 0.7, 0.8)
	m, err := NewCalibrationMatrix("dev/clamp", grid, 0.5, 0.5, 0.125, 0.125)
	if err != nil {
		t.Fatalf("NewCalibrationMatrix failed: %v", err)
	}

	cases := []struct {
		x, y   int
		gx, gy float32
	}{
		{-1, -1, 0.1, 0.2},
		{-100, 0, 0.1, 0.2},
		{64, -5, 0.3, 0.4},
		{-5, 64, 0.5, 0.6},
		{64, 64, 0.7, 0.8},
		{1000, 1000, 0.7, 0.8},
	}
	for _, tc := range cases {
		gx, gy := m.Cell(tc.x, tc.y)
		if gx != tc.gx || gy != tc.gy {
			t.Errorf("Cell(%d, %d) = (%v, %v), want (%v, %v)", tc.x, tc.y, gx, gy, tc.gx, tc.gy)
		}
	}
}

func TestCellIndex(t *testing.T) {
	if got := cellIndex(0, 0); got != 0 {
		t.Errorf("cellIndex(0,0) = %d", got)
	}
	if got := cellIndex(1, 0); got != 2 {
		t.Errorf("cellIndex(1,0) = %d, want 2", got)
	}
	if got := cellIndex(0, 1); got != 128 {
		t.Errorf("cellIndex(0,1) = %d, want 128", got)
	}
	if got := cellIndex(63, 63); got != GridFloats-2 {
		t.Errorf("cellIndex(63,63) = %d, want %d", got, GridFloats-2)
	}
}
