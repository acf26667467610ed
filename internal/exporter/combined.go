package exporter

import (
	"fmt"
	"path/filepath"

	"histcli/internal/analytics"
	"histcli/internal/dataset"
	"histcli/pkg/contracts/domain"
)

// CombinedExporter writes the validated combined dataset and per-symbol
// history files to CSV.
type CombinedExporter struct {
	csvWriter *CSVWriter
}

// NewCombinedExporter creates a combined dataset exporter.
func NewCombinedExporter() *CombinedExporter {
	return &CombinedExporter{csvWriter: NewCSVWriter()}
}

// combinedHeaders is the column order of the combined CSV.
func combinedHeaders() []string {
	return []string{"Symbol", "Date", "Open", "High", "Low", "Close", "Volume"}
}

// ExportCombinedCSV writes the whole dataset to one CSV in dataset order.
func (e *CombinedExporter) ExportCombinedCSV(ds *dataset.Dataset, outputPath string) error {
	records := make([][]string, 0, ds.Len())
	for _, r := range ds.Records() {
		records = append(records, recordToRow(r))
	}
	if err := e.csvWriter.WriteSimpleCSV(outputPath, combinedHeaders(), records); err != nil {
		return fmt.Errorf("failed to write combined CSV: %w", err)
	}
	return nil
}

// ExportSymbolFiles writes one history CSV per symbol into outputDir
// (e.g. aapl_history.csv).
func (e *CombinedExporter) ExportSymbolFiles(ds *dataset.Dataset, outputDir string) error {
	for _, symbol := range ds.Symbols() {
		var rows [][]string
		for _, r := range ds.SymbolRecords(symbol) {
			rows = append(rows, recordToRow(r))
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s_history.csv", symbol))
		if err := e.csvWriter.WriteSimpleCSV(path, combinedHeaders(), rows); err != nil {
			return fmt.Errorf("failed to write history for %s: %w", symbol, err)
		}
	}
	return nil
}

// ExportStatsCSV writes per-symbol descriptive statistics to CSV.
func (e *CombinedExporter) ExportStatsCSV(stats []domain.SymbolStats, outputPath string) error {
	headers := []string{"Symbol", "Column", "Count", "Mean", "Std", "Min", "Max", "FirstDate", "LastDate"}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Symbol,
			s.Column,
			formatInt(int64(s.Count)),
			formatStat(s.Mean),
			formatStat(s.Std),
			formatStat(s.Min),
			formatStat(s.Max),
			s.First,
			s.Last,
		})
	}
	return e.csvWriter.WriteSimpleCSV(outputPath, headers, rows)
}

// ExportCorrelationCSV writes the correlation matrix as a square table with
// symbol row and column labels. NaN cells are left empty.
func (e *CombinedExporter) ExportCorrelationCSV(corr *analytics.CorrelationMatrix, outputPath string) error {
	headers := append([]string{""}, corr.Symbols...)
	rows := make([][]string, 0, len(corr.Symbols))
	for i, symbol := range corr.Symbols {
		row := make([]string, 0, len(corr.Symbols)+1)
		row = append(row, symbol)
		for j := range corr.Symbols {
			row = append(row, formatStat(corr.Values[i][j]))
		}
		rows = append(rows, row)
	}
	if err := e.csvWriter.WriteSimpleCSV(outputPath, headers, rows); err != nil {
		return fmt.Errorf("failed to write correlation CSV: %w", err)
	}
	return nil
}

func recordToRow(r domain.PriceRecord) []string {
	return []string{
		r.Symbol,
		r.Date.Format("2006-01-02"),
		formatPrice(r.Open),
		formatPrice(r.High),
		formatPrice(r.Low),
		formatPrice(r.Close),
		formatInt(r.Volume),
	}
}
