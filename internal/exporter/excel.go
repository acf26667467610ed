package exporter

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"histcli/internal/analytics"
	"histcli/pkg/contracts/domain"
)

// ExcelExporter writes the statistics summary workbook.
type ExcelExporter struct{}

// NewExcelExporter creates a new workbook exporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

const (
	summarySheet     = "Summary"
	correlationSheet = "Correlation"
)

// ExportSummaryWorkbook writes one workbook with a per-symbol statistics
// sheet and, when a correlation matrix is given, a correlation sheet.
func (e *ExcelExporter) ExportSummaryWorkbook(stats []domain.SymbolStats, corr *analytics.CorrelationMatrix, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), summarySheet)
	if err := e.writeSummarySheet(f, stats); err != nil {
		return err
	}

	if corr != nil {
		if _, err := f.NewSheet(correlationSheet); err != nil {
			return fmt.Errorf("failed to create correlation sheet: %w", err)
		}
		if err := e.writeCorrelationSheet(f, corr); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (e *ExcelExporter) writeSummarySheet(f *excelize.File, stats []domain.SymbolStats) error {
	headers := []interface{}{"Symbol", "Column", "Count", "Mean", "Std", "Min", "Max", "FirstDate", "LastDate"}
	if err := f.SetSheetRow(summarySheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write summary headers: %w", err)
	}

	for i, s := range stats {
		row := []interface{}{s.Symbol, s.Column, s.Count, s.Mean, s.Std, s.Min, s.Max, s.First, s.Last}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+2, err)
		}
	}
	return nil
}

func (e *ExcelExporter) writeCorrelationSheet(f *excelize.File, corr *analytics.CorrelationMatrix) error {
	header := make([]interface{}, 0, len(corr.Symbols)+1)
	header = append(header, "")
	for _, s := range corr.Symbols {
		header = append(header, s)
	}
	if err := f.SetSheetRow(correlationSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write correlation headers: %w", err)
	}

	for i, symbol := range corr.Symbols {
		row := make([]interface{}, 0, len(corr.Symbols)+1)
		row = append(row, symbol)
		for j := range corr.Symbols {
			v := corr.Values[i][j]
			if math.IsNaN(v) {
				row = append(row, "")
			} else {
				row = append(row, v)
			}
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(correlationSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write correlation row %d: %w", i+2, err)
		}
	}
	return nil
}
