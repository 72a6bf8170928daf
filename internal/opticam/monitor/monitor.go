package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/veridian-devices/opticam/internal/opticam"
)

// WebServer serves calibration debug endpoints for one connection's cache.
type WebServer struct {
	mux   *http.ServeMux
	cache *opticam.CalibrationCache
}

// NewWebServer creates a debug server over the given calibration cache.
func NewWebServer(cache *opticam.CalibrationCache) *WebServer {
	ws := &WebServer{
		mux:   http.NewServeMux(),
		cache: cache,
	}
	ws.mux.HandleFunc("/debug/calibration/keys", ws.handleKeys)
	ws.mux.HandleFunc("/debug/calibration/stats", ws.handleGridStats)
	ws.mux.HandleFunc("/debug/calibration/heatmap", ws.handleGridHeatmap)
	return ws
}

func (ws *WebServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws.mux.ServeHTTP(w, r)
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// resolveKey picks the matrix for the request's key param, defaulting to
// the only cached key when the param is absent and the choice is
// unambiguous.
func (ws *WebServer) resolveKey(r *http.Request) (opticam.CalibrationKey, error) {
	if k := r.URL.Query().Get("key"); k != "" {
		return opticam.CalibrationKey(k), nil
	}
	keys := ws.cache.Keys()
	if len(keys) == 1 {
		return keys[0], nil
	}
	return "", fmt.Errorf("key param required (%d cached)", len(keys))
}

// handleKeys lists the calibration keys currently memoized for this
// connection.
func (ws *WebServer) handleKeys(w http.ResponseWriter, r *http.Request) {
	keys := ws.cache.Keys()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"connection_id": ws.cache.ConnectionID().String(),
		"keys":          keys,
	})
}

// handleGridStats returns displacement statistics for one calibration grid.
func (ws *WebServer) handleGridStats(w http.ResponseWriter, r *http.Request) {
	key, err := ws.resolveKey(r)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := ws.cache.Get(key)
	if err != nil {
		ws.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(opticam.ComputeGridStats(m))
}

// handleGridHeatmap renders a calibration grid as an HTML heatmap of
// per-cell displacement from the identity grid.
func (ws *WebServer) handleGridHeatmap(w http.ResponseWriter, r *http.Request) {
	key, err := ws.resolveKey(r)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := ws.cache.Get(key)
	if err != nil {
		ws.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderGridHeatmap(m, w); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
	}
}
