package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathsLayout(t *testing.T) {
	p := NewPaths("/srv/hist")

	assert.Equal(t, filepath.Join("/srv/hist", "data"), p.DataDir)
	assert.Equal(t, filepath.Join("/srv/hist", "data", "prices"), p.PricesDir)
	assert.Equal(t, filepath.Join("/srv/hist", "data", "reports"), p.ReportsDir)
	assert.Equal(t, filepath.Join("/srv/hist", "logs"), p.LogsDir)
	assert.Equal(t, filepath.Join("/srv/hist", "data", "reports", "combined_prices.csv"), p.CombinedCSV)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	p := NewPaths(base)

	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{p.DataDir, p.PricesDir, p.ReportsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestPathsFromConfigOverrides(t *testing.T) {
	cfg := Default()
	cfg.Paths.BaseDir = "/srv/hist"
	cfg.Paths.PricesDir = "/mnt/archive/prices"
	cfg.Paths.ReportsDir = "out"

	p := PathsFromConfig(cfg)

	assert.Equal(t, "/mnt/archive/prices", p.PricesDir, "absolute override kept as-is")
	assert.Equal(t, filepath.Join("/srv/hist", "out"), p.ReportsDir, "relative override rooted at base")
	assert.Equal(t, filepath.Join("/srv/hist", "out", "symbol_summary.csv"), p.SummaryCSV)
}

func TestGetSymbolHistoryPath(t *testing.T) {
	p := NewPaths(t.TempDir())
	got := p.GetSymbolHistoryPath("aapl")
	assert.Equal(t, filepath.Join(p.ReportsDir, "aapl_history.csv"), got)
}
