package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"histcli/internal/config"
	"histcli/internal/dataset"
	apperrors "histcli/internal/errors"
	"histcli/internal/exporter"
	"histcli/internal/infrastructure"
)

// Exit codes distinguish the failure stage so callers can react without
// parsing log output.
const (
	exitOK         = 0
	exitUsage      = 1
	exitInput      = 2
	exitParse      = 3
	exitValidation = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	dir := flag.String("dir", "", "directory containing table_<symbol>.csv files (defaults to data/prices)")
	out := flag.String("out", "", "output csv file path (defaults to data/reports/combined_prices.csv)")
	perSymbol := flag.Bool("per-symbol", false, "also write one <symbol>_history.csv per symbol next to the output")
	workers := flag.Int("workers", 0, "number of files parsed concurrently (0 = one per CPU)")
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
	if *out == "" {
		*out = paths.CombinedCSV
	}
	if *workers <= 0 {
		*workers = cfg.Dataset.Workers()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("starting combine",
		slog.String("input_dir", *dir),
		slog.String("output_file", *out),
		slog.Int("workers", *workers))

	ctx := context.Background()
	builder := dataset.NewBuilder(logger, dataset.WithWorkers(*workers))

	ds, err := builder.Build(ctx, *dir)
	if err != nil {
		logger.Error("build failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}

	ex := exporter.NewCombinedExporter()
	if err := ex.ExportCombinedCSV(ds, *out); err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitUsage
	}
	if *perSymbol {
		if err := ex.ExportSymbolFiles(ds, paths.ReportsDir); err != nil {
			logger.Error("per-symbol export failed", slog.String("error", err.Error()))
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitUsage
		}
	}

	logger.Info("combine completed",
		slog.Int("records", ds.Len()),
		slog.Int("symbols", len(ds.Symbols())),
		slog.String("output_path", *out))
	fmt.Printf("Combined %d records across %d symbols into %s\n",
		ds.Len(), len(ds.Symbols()), *out)
	return exitOK
}

func exitCode(err error) int {
	switch {
	case apperrors.IsInputError(err):
		return exitInput
	case apperrors.IsParseError(err):
		return exitParse
	case apperrors.IsValidationError(err):
		return exitValidation
	default:
		return exitUsage
	}
}
