package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/wifi-doctor/pkg/engine"
	"github.com/helmcode/wifi-doctor/pkg/metrics"
	"github.com/helmcode/wifi-doctor/pkg/model"
	"github.com/helmcode/wifi-doctor/pkg/phy"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const snapshot = `{
  "scope": {"type": "client", "id": "laptop-7"},
  "client": {
    "band": "5GHz", "rssi": -55, "snr": 40,
    "mcsHistogram": [{"mcs": 11, "count": 950}, {"mcs": 10, "count": 50}],
    "retries": 10, "failures": 1,
    "start": "2026-03-01T12:00:00Z", "end": "2026-03-01T13:00:00Z",
    "peakThroughputMbps": 900
  },
  "radio": {"apId": "ap-1", "band": "5GHz", "channel": 36, "channelWidth": 80,
            "airtimeUtilization": 30, "clientsConnected": 10, "generation": "802.11ax", "spatialStreams": 2},
  "backhaul": {"capacityMbps": 1000, "peakMbps": 200, "avgMbps": 80},
  "capabilities": {"spatialStreams": 2, "maxChannelWidth": 80, "generation": 6}
}`

func setupTestRouter(t *testing.T) (*gin.Engine, *metrics.Recorder) {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	router := gin.New()
	h := NewHandlers(engine.New(engine.WithRecorder(rec)), nil, "test")
	RegisterRoutes(router, h, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return router, rec
}

func do(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(router, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "ok", Version: "test"}, resp)
}

func TestHandleDiagnose_OK(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(router, http.MethodPost, "/v1/diagnose", snapshot)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report model.DiagnosticReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 100, report.Summary.Score)
	assert.Equal(t, model.LevelExcellent, report.Summary.Level)
	assert.Equal(t, "laptop-7", report.Scope.ID)
}

func TestHandleDiagnose_YAMLBody(t *testing.T) {
	router, _ := setupTestRouter(t)
	body := `
client: {band: 5GHz, rssi: -81, snr: 9, mcsHistogram: {2: 100}, start: "2026-03-01T12:00:00Z", end: "2026-03-01T12:10:00Z", peakThroughputMbps: 150}
radio: {apId: ap-1, band: 5GHz, channelWidth: 80, airtimeUtilization: 20, clientsConnected: 3}
backhaul: {capacityMbps: 500, peakMbps: 50, avgMbps: 10}
capabilities: {spatialStreams: 2, maxChannelWidth: 80, generation: "6"}
`
	w := do(router, http.MethodPost, "/v1/diagnose", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report model.DiagnosticReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, model.BottleneckSignal, report.Summary.PrimaryBottleneck.Type)
}

func TestHandleDiagnose_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		code    int
		section string
	}{
		{"empty body", "", http.StatusBadRequest, ""},
		{"not telemetry", "[1, 2", http.StatusBadRequest, ""},
		{"missing backhaul", strings.Replace(snapshot, `"backhaul"`, `"uplink"`, 1), http.StatusUnprocessableEntity, "backhaul"},
		{"out of range", strings.Replace(snapshot, `"rssi": -55`, `"rssi": 12`, 1), http.StatusUnprocessableEntity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupTestRouter(t)

			w := do(router, http.MethodPost, "/v1/diagnose", tt.body)

			require.Equal(t, tt.code, w.Code, w.Body.String())
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.section, resp.Section)
		})
	}
}

func TestHandleDiagnose_BodyReadErrors(t *testing.T) {
	t.Run("too large", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := do(router, http.MethodPost, "/v1/diagnose", strings.Repeat("a", MaxBodyBytes+1))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
	})

	t.Run("read failure", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/diagnose", iotest.ErrReader(errors.New("connection reset")))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "connection reset")
	})
}

func TestHandleDiagnose_InvalidListsFields(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(router, http.MethodPost, "/v1/diagnose", strings.Replace(snapshot, `"rssi": -55`, `"rssi": 12`, 1))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Fields, 1)
	assert.Contains(t, resp.Fields[0], "RSSI")
}

func TestHandlePhyRate(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(router, http.MethodGet, "/v1/phy-rate?mcs=11&streams=2&width=80&gi=800&generation=6", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var l phy.Lookup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, 1201.0, l.RateMbps)
	assert.Equal(t, 11, l.MaxMCS)
}

func TestHandlePhyRate_Defaults(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(router, http.MethodGet, "/v1/phy-rate?mcs=0", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var l phy.Lookup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, 1, l.Streams)
	assert.Equal(t, 20, l.WidthMHz)
	assert.Equal(t, phy.GI800, l.GuardInterval)
	assert.Equal(t, phy.Gen6, l.Generation)
}

func TestHandlePhyRate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  int
	}{
		{"unsupported combination", "mcs=9&streams=1&width=20&gi=400&generation=5", http.StatusUnprocessableEntity},
		{"mcs out of range", "mcs=14", http.StatusBadRequest},
		{"bad width", "mcs=1&width=60", http.StatusBadRequest},
		{"bad generation", "mcs=1&generation=3", http.StatusBadRequest},
		{"not a number", "mcs=high", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupTestRouter(t)

			w := do(router, http.MethodGet, "/v1/phy-rate?"+tt.query, "")

			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)
	do(router, http.MethodPost, "/v1/diagnose", snapshot)

	w := do(router, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `wifi_doctor_engine_analyses_total{result="ok"} 1`)
}
