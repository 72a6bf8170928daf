// Package calibstore persists device calibration matrices to SQLite.
//
// The device driver normally supplies calibration grids over the wire on
// connection open. Persisting a snapshot per (device, key) lets a
// connection restore its calibration when the device omits the grid (older
// firmware after warm reboot) and gives offline tools something to
// inspect.
package calibstore
