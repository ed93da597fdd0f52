package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakout_bot/internal/metrics"
	"breakout_bot/internal/modules/health/service"
)

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestReadyAfterFirstCycle(t *testing.T) {
	state := service.NewState()
	mux := NewMux(state, metrics.New())

	assert.Equal(t, http.StatusOK, get(t, mux, "/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, mux, "/readyz").Code)

	state.CycleDone("placed", "placed BUY@50100.50", time.Unix(1_700_000_000, 0))

	assert.Equal(t, http.StatusOK, get(t, mux, "/readyz").Code)
}

func TestHealthzReportsLastCycle(t *testing.T) {
	state := service.NewState()
	state.CycleDone("kept", "kept", time.Unix(1_700_000_000, 0))
	mux := NewMux(state, nil)

	rr := get(t, mux, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "kept", body["lastOutcome"])
	assert.Equal(t, float64(1_700_000_000), body["lastCycleUnix"])
	assert.Equal(t, float64(1), body["cycles"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := metrics.New()
	rec.RecordCycle("placed", time.Second)
	mux := NewMux(service.NewState(), rec)

	rr := get(t, mux, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `breakout_bot_cycles_total{outcome="placed"} 1`)
}
