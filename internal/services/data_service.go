package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"histcli/internal/analytics"
	"histcli/internal/dataset"
	"histcli/internal/infrastructure"
	"histcli/pkg/contracts/domain"
)

// DataService owns the current dataset snapshot and answers all queries
// against it. Reload builds a fresh snapshot and swaps it in atomically;
// readers always see a complete, validated dataset.
type DataService struct {
	logger    *slog.Logger
	builder   *dataset.Builder
	analyzer  *analytics.Analyzer
	metrics   *infrastructure.Metrics
	pricesDir string

	mu      sync.RWMutex
	current *dataset.Dataset
}

// Option configures a DataService.
type Option func(*DataService)

// WithBuilder replaces the default dataset builder.
func WithBuilder(b *dataset.Builder) Option {
	return func(s *DataService) { s.builder = b }
}

// WithMetrics installs build and dataset-size metrics.
func WithMetrics(m *infrastructure.Metrics) Option {
	return func(s *DataService) { s.metrics = m }
}

// NewDataService creates a data service reading price files from pricesDir.
// A nil logger falls back to the default.
func NewDataService(pricesDir string, logger *slog.Logger, opts ...Option) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DataService{
		logger:    logger.With(slog.String("component", "data_service")),
		pricesDir: pricesDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.builder == nil {
		s.builder = dataset.NewBuilder(logger)
	}
	s.analyzer = analytics.NewAnalyzer(logger)
	return s
}

// Reload builds a new dataset from the price directory and swaps it in.
// On failure the previous snapshot stays current.
func (s *DataService) Reload(ctx context.Context) (*dataset.Dataset, error) {
	start := time.Now()

	ds, err := s.builder.Build(ctx, s.pricesDir)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveBuild("failure", time.Since(start), 0, 0)
		}
		s.logger.ErrorContext(ctx, "dataset reload failed",
			slog.String("dir", s.pricesDir),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveBuild("success", time.Since(start), len(ds.Symbols()), ds.Len())
		s.metrics.SetDatasetSize(ds.Len(), len(ds.Symbols()))
	}
	s.logger.InfoContext(ctx, "dataset reloaded",
		slog.Int("records", ds.Len()),
		slog.Int("symbols", len(ds.Symbols())),
		slog.Duration("elapsed", time.Since(start)))
	return ds, nil
}

// Dataset returns the current snapshot, or ErrDatasetNotBuilt before the
// first successful Reload.
func (s *DataService) Dataset() (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrDatasetNotBuilt
	}
	return s.current, nil
}

// Symbols returns the distinct symbols in the current dataset.
func (s *DataService) Symbols(ctx context.Context) ([]string, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Symbols(), nil
}

// Records returns the records matching the filter, in (symbol, date) order.
func (s *DataService) Records(ctx context.Context, filter domain.RecordFilter) ([]domain.PriceRecord, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Filter(filter), nil
}

// Stats computes per-symbol descriptive statistics for one column.
func (s *DataService) Stats(ctx context.Context, column string) ([]domain.SymbolStats, error) {
	if !domain.IsColumn(column) {
		return nil, ErrUnknownColumn
	}
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return s.analyzer.Describe(ctx, ds, column)
}

// Returns computes day-over-day close returns for one symbol.
func (s *DataService) Returns(ctx context.Context, symbol string) ([]analytics.Return, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	if !ds.HasSymbol(symbol) {
		return nil, ErrSymbolNotFound
	}
	return s.analyzer.SymbolReturns(ds, symbol), nil
}

// Correlation computes the pairwise correlation matrix of one column.
func (s *DataService) Correlation(ctx context.Context, column string) (*analytics.CorrelationMatrix, error) {
	if !domain.IsColumn(column) {
		return nil, ErrUnknownColumn
	}
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return s.analyzer.Correlation(ctx, ds, column)
}

// Pivot reshapes one column into a date-by-symbol table.
func (s *DataService) Pivot(ctx context.Context, column string) (*dataset.PivotTable, error) {
	if !domain.IsColumn(column) {
		return nil, ErrUnknownColumn
	}
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Pivot(column)
}

// Aggregate groups one column by symbol using the named function
// ("sum" or "mean").
func (s *DataService) Aggregate(ctx context.Context, column, fn string) (map[string]float64, error) {
	if !domain.IsColumn(column) {
		return nil, ErrUnknownColumn
	}
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	switch fn {
	case "sum":
		return ds.GroupBySymbolSum(column)
	case "mean":
		return ds.GroupBySymbolMean(column)
	default:
		return nil, ErrUnknownAggregate
	}
}
