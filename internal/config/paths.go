package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file paths in the application.
type Paths struct {
	BaseDir    string
	DataDir    string
	PricesDir  string
	ReportsDir string
	LogsDir    string

	// Well-known report files
	CombinedCSV    string
	SummaryCSV     string
	SummaryXLSX    string
	CorrelationCSV string
}

// NewPaths builds the path set rooted at baseDir. An empty baseDir roots the
// layout at the current working directory.
//
// Layout:
//
//	base/
//	  ├── data/
//	  │   ├── prices/    (table_<symbol>.csv source files)
//	  │   └── reports/   (generated CSV/XLSX reports)
//	  └── logs/
func NewPaths(baseDir string) *Paths {
	if baseDir == "" {
		baseDir = "."
	}
	dataDir := filepath.Join(baseDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")

	return &Paths{
		BaseDir:    baseDir,
		DataDir:    dataDir,
		PricesDir:  filepath.Join(dataDir, "prices"),
		ReportsDir: reportsDir,
		LogsDir:    filepath.Join(baseDir, "logs"),

		CombinedCSV:    filepath.Join(reportsDir, "combined_prices.csv"),
		SummaryCSV:     filepath.Join(reportsDir, "symbol_summary.csv"),
		SummaryXLSX:    filepath.Join(reportsDir, "symbol_summary.xlsx"),
		CorrelationCSV: filepath.Join(reportsDir, "close_correlation.csv"),
	}
}

// PathsFromConfig resolves the path set from a loaded configuration,
// honoring explicit overrides in the paths section.
func PathsFromConfig(cfg *Config) *Paths {
	p := NewPaths(cfg.Paths.BaseDir)
	if cfg.Paths.PricesDir != "" {
		p.PricesDir = resolveUnder(cfg.Paths.BaseDir, cfg.Paths.PricesDir)
	}
	if cfg.Paths.ReportsDir != "" {
		p.ReportsDir = resolveUnder(cfg.Paths.BaseDir, cfg.Paths.ReportsDir)
		p.CombinedCSV = filepath.Join(p.ReportsDir, "combined_prices.csv")
		p.SummaryCSV = filepath.Join(p.ReportsDir, "symbol_summary.csv")
		p.SummaryXLSX = filepath.Join(p.ReportsDir, "symbol_summary.xlsx")
		p.CorrelationCSV = filepath.Join(p.ReportsDir, "close_correlation.csv")
	}
	if cfg.Paths.LogsDir != "" {
		p.LogsDir = resolveUnder(cfg.Paths.BaseDir, cfg.Paths.LogsDir)
	}
	return p
}

func resolveUnder(base, path string) string {
	if filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.PricesDir,
		p.ReportsDir,
		p.LogsDir,
	}
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetSymbolHistoryPath returns the path for a per-symbol history CSV
// (e.g. aapl_history.csv).
func (p *Paths) GetSymbolHistoryPath(symbol string) string {
	return filepath.Join(p.ReportsDir, fmt.Sprintf("%s_history.csv", symbol))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
