package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histcli/internal/config"
	"histcli/internal/infrastructure"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	infrastructure.ResetLoggerForTesting()

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Logging.Output = "console"

	a, err := NewWithConfig(cfg)
	require.NoError(t, err)
	return a
}

func TestNewWithConfigCreatesLayout(t *testing.T) {
	a := newTestApp(t)

	for _, dir := range []string{"data/prices", "data/reports", "logs"} {
		info, err := os.Stat(filepath.Join(a.config.Paths.BaseDir, dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestRouterServesHealthAndMetrics(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])

	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterRebuildFlow(t *testing.T) {
	a := newTestApp(t)

	pricesDir := filepath.Join(a.config.Paths.BaseDir, "data", "prices")
	require.NoError(t, os.WriteFile(filepath.Join(pricesDir, "table_aapl.csv"),
		[]byte("20150102,093000,100,101,99,100.5,5000000\n"), 0644))

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/symbols", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []any{"aapl"}, body["symbols"])
}

func TestRouterSetsRequestID(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
