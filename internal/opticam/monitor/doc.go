// Package monitor exposes debugging HTTP endpoints for the camera core:
// calibration grid heatmaps (go-echarts HTML) and grid statistics (JSON).
// Debug-only surface, no auth; bind it to localhost.
package monitor
