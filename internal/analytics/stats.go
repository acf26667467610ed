package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"histcli/internal/dataset"
	"histcli/pkg/contracts/domain"
)

// Analyzer computes descriptive statistics over a validated dataset.
type Analyzer struct {
	logger     *slog.Logger
	dateFormat string
}

// NewAnalyzer creates an analyzer. A nil logger falls back to the default.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		logger:     logger.With(slog.String("component", "analytics")),
		dateFormat: "2006-01-02",
	}
}

// Describe computes per-symbol count/mean/std/min/max for one numeric
// column, plus the first and last trading dates. Results are sorted by
// symbol. Std is the sample standard deviation (n-1 denominator); a symbol
// with a single record reports zero.
func (a *Analyzer) Describe(ctx context.Context, ds *dataset.Dataset, column string) ([]domain.SymbolStats, error) {
	if !domain.IsColumn(column) {
		return nil, fmt.Errorf("unknown column: %s", column)
	}

	a.logger.DebugContext(ctx, "computing descriptive statistics",
		slog.String("column", column),
		slog.Int("records", ds.Len()))

	stats := make([]domain.SymbolStats, 0, len(ds.Symbols()))
	for _, symbol := range ds.Symbols() {
		records := ds.SymbolRecords(symbol)
		if len(records) == 0 {
			continue
		}

		s := domain.SymbolStats{
			Symbol: symbol,
			Column: column,
			Count:  len(records),
			Min:    math.Inf(1),
			Max:    math.Inf(-1),
			First:  records[0].Date.Format(a.dateFormat),
			Last:   records[len(records)-1].Date.Format(a.dateFormat),
		}

		var sum float64
		for _, r := range records {
			v, _ := r.ColumnValue(column)
			sum += v
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		s.Mean = sum / float64(s.Count)

		if s.Count > 1 {
			var sq float64
			for _, r := range records {
				v, _ := r.ColumnValue(column)
				d := v - s.Mean
				sq += d * d
			}
			s.Std = math.Sqrt(sq / float64(s.Count-1))
		}

		stats = append(stats, s)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Symbol < stats[j].Symbol })
	return stats, nil
}

// Return is one day's simple return for a symbol.
type Return struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SymbolReturns computes day-over-day simple returns of the closing price
// for one symbol: r[t] = close[t]/close[t-1] - 1. Days whose previous close
// is zero are skipped.
func (a *Analyzer) SymbolReturns(ds *dataset.Dataset, symbol string) []Return {
	records := ds.SymbolRecords(symbol)
	if len(records) < 2 {
		return nil
	}

	returns := make([]Return, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		prev := records[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, Return{
			Date:  records[i].Date,
			Value: records[i].Close/prev - 1,
		})
	}
	return returns
}
