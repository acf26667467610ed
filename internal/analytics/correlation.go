package analytics

import (
	"context"
	"log/slog"
	"math"

	"histcli/internal/dataset"
)

// CorrelationMatrix holds pairwise Pearson correlations between symbols.
// Values[i][j] correlates Symbols[i] with Symbols[j]; the matrix is
// symmetric with a unit diagonal. Pairs with fewer than two overlapping
// observations are NaN.
type CorrelationMatrix struct {
	Symbols []string    `json:"symbols"`
	Values  [][]float64 `json:"values"`
}

// Correlation computes the pairwise-complete Pearson correlation of one
// numeric column across all symbols. Only dates where both symbols have a
// record contribute to a pair.
func (a *Analyzer) Correlation(ctx context.Context, ds *dataset.Dataset, column string) (*CorrelationMatrix, error) {
	table, err := ds.Pivot(column)
	if err != nil {
		return nil, err
	}

	n := len(table.Symbols)
	a.logger.DebugContext(ctx, "computing correlation matrix",
		slog.String("column", column),
		slog.Int("symbols", n),
		slog.Int("dates", len(table.Dates)))

	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(table.Values, i, j)
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &CorrelationMatrix{Symbols: table.Symbols, Values: values}, nil
}

// pearson correlates columns i and j of the pivot rows over the dates where
// both are present.
func pearson(rows [][]float64, i, j int) float64 {
	var xs, ys []float64
	for _, row := range rows {
		x, y := row[i], row[j]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}

	var sumX, sumY float64
	for k := 0; k < n; k++ {
		sumX += xs[k]
		sumY += ys[k]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for k := 0; k < n; k++ {
		dx := xs[k] - meanX
		dy := ys[k] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}
