package calibstore

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/veridian-devices/opticam/internal/opticam"
)

// Store persists calibration snapshots keyed by (device serial, calibration
// key). One row per key; saving again overwrites the previous snapshot.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a calibration store at path. The
// embedded schema migrations are applied, so the returned store is always at
// the latest schema version.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open calibration store %q: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate calibration store %q: %w", path, err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for migrations and diagnostics.
func (s *Store) DB() *sql.DB { return s.db }

// Save writes (or overwrites) the snapshot for m under deviceSerial.
func (s *Store) Save(deviceSerial string, m *opticam.CalibrationMatrix) error {
	blob, err := serializeGrid(m.Grid())
	if err != nil {
		return fmt.Errorf("serialize grid for %q: %w", m.Key(), err)
	}

	_, err = s.db.Exec(`
		INSERT INTO calibration_snapshots
			(device_serial, cal_key, ray_offset_x, ray_offset_y, ray_scale_x, ray_scale_y, grid_blob)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (device_serial, cal_key) DO UPDATE SET
			ray_offset_x = excluded.ray_offset_x,
			ray_offset_y = excluded.ray_offset_y,
			ray_scale_x  = excluded.ray_scale_x,
			ray_scale_y  = excluded.ray_scale_y,
			grid_blob    = excluded.grid_blob,
			created_at   = CURRENT_TIMESTAMP
	`, deviceSerial, string(m.Key()), m.RayOffsetX(), m.RayOffsetY(), m.RayScaleX(), m.RayScaleY(), blob)
	if err != nil {
		return fmt.Errorf("save calibration %q for device %s: %w", m.Key(), deviceSerial, err)
	}
	return nil
}

// Load reads the snapshot for (deviceSerial, key). A missing row is
// reported as opticam.ErrMissingCalibration.
func (s *Store) Load(deviceSerial string, key opticam.CalibrationKey) (*opticam.CalibrationMatrix, error) {
	var (
		offX, offY, scaleX, scaleY float64
		blob                       []byte
	)
	err := s.db.QueryRow(`
		SELECT ray_offset_x, ray_offset_y, ray_scale_x, ray_scale_y, grid_blob
		FROM calibration_snapshots
		WHERE device_serial = ? AND cal_key = ?
	`, deviceSerial, string(key)).Scan(&offX, &offY, &scaleX, &scaleY, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("device %s: %w: %q", deviceSerial, opticam.ErrMissingCalibration, key)
	}
	if err != nil {
		return nil, fmt.Errorf("load calibration %q for device %s: %w", key, deviceSerial, err)
	}

	grid, err := deserializeGrid(blob)
	if err != nil {
		return nil, fmt.Errorf("deserialize grid for %q: %w", key, err)
	}
	return opticam.NewCalibrationMatrix(key, grid,
		float32(offX), float32(offY), float32(scaleX), float32(scaleY))
}

// Keys lists the calibration keys stored for deviceSerial.
func (s *Store) Keys(deviceSerial string) ([]opticam.CalibrationKey, error) {
	rows, err := s.db.Query(`
		SELECT cal_key FROM calibration_snapshots
		WHERE device_serial = ? ORDER BY cal_key
	`, deviceSerial)
	if err != nil {
		return nil, fmt.Errorf("list calibrations for device %s: %w", deviceSerial, err)
	}
	defer rows.Close()

	var keys []opticam.CalibrationKey
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, opticam.CalibrationKey(k))
	}
	return keys, rows.Err()
}

// Provider returns a CalibrationProvider serving snapshots for one device.
// Wire it into a connection's CalibrationCache as the fallback when the
// device itself does not supply a grid.
func (s *Store) Provider(deviceSerial string) opticam.CalibrationProviderFunc {
	return func(key opticam.CalibrationKey) (*opticam.CalibrationMatrix, error) {
		return s.Load(deviceSerial, key)
	}
}

// serializeGrid compresses grid values using gob encoding and gzip.
func serializeGrid(grid []float32) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(grid); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeGrid decodes grid values from a gob+gzip blob.
func deserializeGrid(blob []byte) ([]float32, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty grid blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var grid []float32
	dec := gob.NewDecoder(gz)
	if err := dec.Decode(&grid); err != nil {
		return nil, fmt.Errorf("failed to decode grid values: %w", err)
	}
	return grid, nil
}
