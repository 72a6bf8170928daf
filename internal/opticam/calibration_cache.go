package opticam

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrMissingCalibration is returned when no calibration matrix exists for a
// requested key. This indicates a caller or provider configuration problem
// and is never masked with a default matrix.
var ErrMissingCalibration = errors.New("no calibration matrix for key")

// CalibrationProvider loads calibration matrices from the device driver
// layer. Load must return the same matrix values for the same key every
// time; the cache relies on that to resolve populate races by idempotent
// recomputation instead of locking around the load.
type CalibrationProvider interface {
	LoadCalibration(key CalibrationKey) (*CalibrationMatrix, error)
}

// CalibrationProviderFunc adapts a function to the CalibrationProvider
// interface.
type CalibrationProviderFunc func(key CalibrationKey) (*CalibrationMatrix, error)

// LoadCalibration calls f(key).
func (f CalibrationProviderFunc) LoadCalibration(key CalibrationKey) (*CalibrationMatrix, error) {
	return f(key)
}

// CalibrationCache memoizes calibration matrices for one device connection.
// Device calibration does not change during a session, so there is no
// eviction; the cache lives exactly as long as its connection and must be
// cleared when the connection closes. Each connection owns its own cache —
// there is deliberately no process-wide instance.
type CalibrationCache struct {
	connID   uuid.UUID
	provider CalibrationProvider

	mu       sync.RWMutex
	matrices map[CalibrationKey]*CalibrationMatrix
}

// NewCalibrationCache creates an empty cache for the given connection.
func NewCalibrationCache(connID uuid.UUID, provider CalibrationProvider) *CalibrationCache {
	return &CalibrationCache{
		connID:   connID,
		provider: provider,
		matrices: make(map[CalibrationKey]*CalibrationMatrix),
	}
}

// ConnectionID returns the id of the connection this cache belongs to.
func (c *CalibrationCache) ConnectionID() uuid.UUID { return c.connID }

// Get returns the calibration matrix for key, loading and memoizing it on
// first request. Concurrent first requests may both invoke the provider;
// the first stored matrix wins and the duplicate is discarded, which is
// safe because all loads of the same key are equal.
func (c *CalibrationCache) Get(key CalibrationKey) (*CalibrationMatrix, error) {
	c.mu.RLock()
	m := c.matrices[key]
	c.mu.RUnlock()
	if m != nil {
		return m, nil
	}

	if c.provider == nil {
		return nil, fmt.Errorf("connection %s: %w: %q", c.connID, ErrMissingCalibration, key)
	}

	// Load outside the lock; a racing Get for the same key recomputes the
	// same values.
	loaded, err := c.provider.LoadCalibration(key)
	if err != nil {
		return nil, fmt.Errorf("connection %s: load calibration %q: %w", c.connID, key, err)
	}
	if loaded == nil {
		return nil, fmt.Errorf("connection %s: %w: %q", c.connID, ErrMissingCalibration, key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing := c.matrices[key]; existing != nil {
		return existing, nil
	}
	c.matrices[key] = loaded
	debugf("[CalibrationCache] memoized matrix for connection=%s key=%s", c.connID, key)
	return loaded, nil
}

// Keys returns the keys currently memoized, in no particular order.
func (c *CalibrationCache) Keys() []CalibrationKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]CalibrationKey, 0, len(c.matrices))
	for k := range c.matrices {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of memoized matrices.
func (c *CalibrationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matrices)
}

// Clear empties the cache. The owning connection calls this on close.
func (c *CalibrationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matrices = make(map[CalibrationKey]*CalibrationMatrix)
}
