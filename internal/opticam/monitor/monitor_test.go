package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/veridian-devices/opticam/internal/opticam"
)

func testServer(t *testing.T, keys ...opticam.CalibrationKey) *WebServer {
	t.Helper()
	provider := opticam.CalibrationProviderFunc(func(key opticam.CalibrationKey) (*opticam.CalibrationMatrix, error) {
		return opticam.SyntheticCalibration(key, 0.2), nil
	})
	cache := opticam.NewCalibrationCache(uuid.New(), provider)
	for _, k := range keys {
		if _, err := cache.Get(k); err != nil {
			t.Fatalf("prime cache: %v", err)
		}
	}
	return NewWebServer(cache)
}

func TestHandleKeys(t *testing.T) {
	ws := testServer(t, "dev-01/left", "dev-01/right")

	rec := httptest.NewRecorder()
	ws.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/calibration/keys", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		ConnectionID string   `json:"connection_id"`
		Keys         []string `json:"keys"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if body.ConnectionID == "" {
		t.Error("connection_id missing")
	}
	if len(body.Keys) != 2 {
		t.Errorf("keys = %v, want 2 entries", body.Keys)
	}
}

func TestHandleGridStats(t *testing.T) {
	ws := testServer(t, "dev-01/left")

	rec := httptest.NewRecorder()
	ws.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/calibration/stats?key=dev-01/left", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var st opticam.GridStats
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if st.Key != "dev-01/left" {
		t.Errorf("stats key = %q", st.Key)
	}
	if st.CoverageRatio != 1 {
		t.Errorf("coverage = %v, want 1", st.CoverageRatio)
	}
}

// TestHandleGridStats_DefaultKey: with exactly one cached key the key param
// may be omitted.
func TestHandleGridStats_DefaultKey(t *testing.T) {
	ws := testServer(t, "dev-01/left")

	rec := httptest.NewRecorder()
	ws.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/calibration/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
}

// TestHandleGridStats_AmbiguousKey: with several cached keys an omitted key
// param is a client error.
func TestHandleGridStats_AmbiguousKey(t *testing.T) {
	ws := testServer(t, "dev-01/left", "dev-01/right")

	rec := httptest.NewRecorder()
	ws.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/calibration/stats", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// TestHandleGridStats_UnknownKey: a key the provider cannot serve is a 404.
func TestHandleGridStats_UnknownKey(t *testing.T) {
	cache := opticam.NewCalibrationCache(uuid.New(), nil)
	ws := NewWebServer(cache)

	rec := httptest.NewRecorder()
	ws.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/calibration/stats?key=nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error response not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("error message missing")
	}
}

func TestHandleGridHeatmap(t *testing.T) {
	ws := testServer(t, "dev-01/left")

	rec := httptest.NewRecorder()
	ws.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/calibration/heatmap?key=dev-01/left", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "echarts") {
		t.Error("heatmap response does not embed a chart")
	}
}
