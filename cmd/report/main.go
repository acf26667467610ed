package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"histcli/internal/analytics"
	"histcli/internal/config"
	"histcli/internal/dataset"
	"histcli/internal/exporter"
	"histcli/internal/infrastructure"
	"histcli/pkg/contracts/domain"
)

func main() {
	dir := flag.String("dir", "", "directory containing table_<symbol>.csv files (defaults to data/prices)")
	column := flag.String("column", domain.ColumnClose, "column to describe and correlate (open|high|low|close|volume)")
	skipXLSX := flag.Bool("skip-xlsx", false, "skip the Excel summary workbook")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	paths := config.PathsFromConfig(cfg)

	if *dir == "" {
		*dir = paths.PricesDir
	}
	if !domain.IsColumn(*column) {
		fmt.Fprintf(os.Stderr, "error: unknown column %q\n", *column)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("starting report generation",
		slog.String("input_dir", *dir),
		slog.String("column", *column),
		slog.String("reports_dir", paths.ReportsDir))

	ctx := context.Background()
	builder := dataset.NewBuilder(logger, dataset.WithWorkers(cfg.Dataset.Workers()))
	ds, err := builder.Build(ctx, *dir)
	if err != nil {
		logger.Error("build failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	analyzer := analytics.NewAnalyzer(logger)
	stats, err := analyzer.Describe(ctx, ds, *column)
	if err != nil {
		fatal(logger, "describe failed", err)
	}
	corr, err := analyzer.Correlation(ctx, ds, *column)
	if err != nil {
		fatal(logger, "correlation failed", err)
	}

	ex := exporter.NewCombinedExporter()
	if err := ex.ExportStatsCSV(stats, paths.SummaryCSV); err != nil {
		fatal(logger, "stats export failed", err)
	}
	if err := ex.ExportCorrelationCSV(corr, paths.CorrelationCSV); err != nil {
		fatal(logger, "correlation export failed", err)
	}
	if !*skipXLSX {
		if err := exporter.NewExcelExporter().ExportSummaryWorkbook(stats, corr, paths.SummaryXLSX); err != nil {
			fatal(logger, "workbook export failed", err)
		}
	}

	logger.Info("report generation completed",
		slog.Int("symbols", len(stats)),
		slog.String("summary_csv", paths.SummaryCSV),
		slog.String("correlation_csv", paths.CorrelationCSV))
	fmt.Printf("Wrote summary for %d symbols to %s\n", len(stats), paths.ReportsDir)
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.String("error", err.Error()))
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
