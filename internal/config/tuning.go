package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds the runtime tuning knobs for the camera core. Fields
// are pointers so a partial JSON file only overrides what it names; the
// Get* methods supply defaults for everything else.
type TuningConfig struct {
	// Frame pool params
	PoolSlots *int `json:"pool_slots,omitempty"`

	// Calibration store params
	CalibrationDBPath *string `json:"calibration_db_path,omitempty"`

	// Debug monitor params
	MonitorAddr *string `json:"monitor_addr,omitempty"`

	// Logging params
	DebugLogging *bool `json:"debug_logging,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and stay under the max file size. Fields omitted
// from the JSON retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.PoolSlots != nil && *c.PoolSlots < 1 {
		return fmt.Errorf("pool_slots must be positive, got %d", *c.PoolSlots)
	}
	if c.CalibrationDBPath != nil && *c.CalibrationDBPath == "" {
		return fmt.Errorf("calibration_db_path must not be empty when set")
	}
	return nil
}

// GetPoolSlots returns the pool slot count or the default.
func (c *TuningConfig) GetPoolSlots() int {
	if c.PoolSlots == nil {
		return 8 // default
	}
	return *c.PoolSlots
}

// GetCalibrationDBPath returns the calibration store path or the default.
func (c *TuningConfig) GetCalibrationDBPath() string {
	if c.CalibrationDBPath == nil {
		return "calibration.db" // default
	}
	return *c.CalibrationDBPath
}

// GetMonitorAddr returns the debug monitor listen address or the default.
func (c *TuningConfig) GetMonitorAddr() string {
	if c.MonitorAddr == nil {
		return "localhost:6060" // default
	}
	return *c.MonitorAddr
}

// GetDebugLogging returns whether verbose diagnostics are enabled.
func (c *TuningConfig) GetDebugLogging() bool {
	if c.DebugLogging == nil {
		return false // default
	}
	return *c.DebugLogging
}
