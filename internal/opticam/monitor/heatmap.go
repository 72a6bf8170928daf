package monitor

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/veridian-devices/opticam/internal/opticam"
)

// RenderGridHeatmap writes an HTML heatmap of the calibration grid's
// per-cell displacement magnitude (normalized grid units) to w. Cells with
// out-of-range values (no corresponding image data) are left blank.
func RenderGridHeatmap(m *opticam.CalibrationMatrix, w io.Writer) error {
	axis := make([]string, opticam.GridSize)
	for i := range axis {
		axis[i] = strconv.Itoa(i)
	}

	data := make([]opts.HeatMapData, 0, opticam.GridSize*opticam.GridSize)
	maxDisp := 0.0
	for y := 0; y < opticam.GridSize; y++ {
		for x := 0; x < opticam.GridSize; x++ {
			gx, gy := m.Cell(x, y)
			if gx < 0 || gx > 1 || gy < 0 || gy > 1 {
				continue
			}
			dx := float64(gx) - float64(x)/(opticam.GridSize-1)
			dy := float64(gy) - float64(y)/(opticam.GridSize-1)
			disp := math.Hypot(dx, dy)
			if disp > maxDisp {
				maxDisp = disp
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, disp}})
		}
	}
	if maxDisp == 0 {
		maxDisp = 1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Calibration Grid Displacement",
			Theme:     "dark",
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Calibration Grid Displacement",
			Subtitle: fmt.Sprintf("key=%s cells=%d", m.Key(), len(data)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: axis, Name: "grid x"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: axis, Name: "grid y"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxDisp),
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)

	hm.AddSeries("displacement", data)
	return hm.Render(w)
}
