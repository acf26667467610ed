package exporter

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histcli/internal/dataset"
	"histcli/pkg/contracts/domain"
)

func buildTestDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"table_aapl.csv": "20150102,093000,100,101,99,100.5,5000000\n" +
			"20150103,093000,100.5,102,100,101,4000000\n",
		"table_msft.csv": "20150102,093000,49.5,50.5,49,50,9000000\n",
	}
	for name, rows := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(rows), 0644))
	}
	ds, err := dataset.NewBuilder(slog.Default()).Build(context.Background(), dir)
	require.NoError(t, err)
	return ds
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Strip the UTF-8 BOM if present.
	content := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	rows, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCombinedCSV(t *testing.T) {
	ds := buildTestDataset(t)
	out := filepath.Join(t.TempDir(), "reports", "combined_prices.csv")

	require.NoError(t, NewCombinedExporter().ExportCombinedCSV(ds, out))

	rows := readCSV(t, out)
	require.Len(t, rows, 4, "header plus three records")
	assert.Equal(t, []string{"Symbol", "Date", "Open", "High", "Low", "Close", "Volume"}, rows[0])
	assert.Equal(t, []string{"aapl", "2015-01-02", "100", "101", "99", "100.5", "5000000"}, rows[1])
	assert.Equal(t, "msft", rows[3][0])
}

func TestExportSymbolFiles(t *testing.T) {
	ds := buildTestDataset(t)
	outDir := t.TempDir()

	require.NoError(t, NewCombinedExporter().ExportSymbolFiles(ds, outDir))

	aapl := readCSV(t, filepath.Join(outDir, "aapl_history.csv"))
	assert.Len(t, aapl, 3)
	msft := readCSV(t, filepath.Join(outDir, "msft_history.csv"))
	assert.Len(t, msft, 2)
}

func TestExportStatsCSV(t *testing.T) {
	stats := []domain.SymbolStats{
		{Symbol: "aapl", Column: "close", Count: 2, Mean: 100.75, Std: 0.3536,
			Min: 100.5, Max: 101, First: "2015-01-02", Last: "2015-01-03"},
	}
	out := filepath.Join(t.TempDir(), "stats.csv")

	require.NoError(t, NewCombinedExporter().ExportStatsCSV(stats, out))

	rows := readCSV(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "aapl", rows[1][0])
	assert.Equal(t, "2", rows[1][2])
	assert.Equal(t, "100.7500", rows[1][3])
}
