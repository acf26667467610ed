package dataset

import (
	"math"
	"sort"
	"time"
)

// GroupBySymbolSum sums the named column per symbol.
func (d *Dataset) GroupBySymbolSum(column string) (map[string]float64, error) {
	return d.groupBy(column, false)
}

// GroupBySymbolMean averages the named column per symbol.
func (d *Dataset) GroupBySymbolMean(column string) (map[string]float64, error) {
	return d.groupBy(column, true)
}

func (d *Dataset) groupBy(column string, mean bool) (map[string]float64, error) {
	sums := make(map[string]float64, len(d.symbols))
	counts := make(map[string]int, len(d.symbols))
	for _, r := range d.records {
		v, err := r.ColumnValue(column)
		if err != nil {
			return nil, err
		}
		sums[r.Symbol] += v
		counts[r.Symbol]++
	}
	if mean {
		for s, sum := range sums {
			sums[s] = sum / float64(counts[s])
		}
	}
	return sums, nil
}

// PivotTable is the wide (date x symbol) view of one numeric column.
// Values[i][j] holds the value for Dates[i] and Symbols[j]; cells with no
// record are NaN.
type PivotTable struct {
	Dates   []time.Time
	Symbols []string
	Values  [][]float64
}

// Cell returns the value for a date/symbol pair, or NaN when either is
// absent from the table.
func (p *PivotTable) Cell(date time.Time, symbol string) float64 {
	col := -1
	for j, s := range p.Symbols {
		if s == symbol {
			col = j
			break
		}
	}
	if col < 0 {
		return math.NaN()
	}
	row := sort.Search(len(p.Dates), func(i int) bool {
		return !p.Dates[i].Before(date)
	})
	if row >= len(p.Dates) || !p.Dates[row].Equal(date) {
		return math.NaN()
	}
	return p.Values[row][col]
}

// Pivot reshapes the dataset from long (symbol, date, value) form to wide
// (date x symbol) form for the named column. Rows cover the union of all
// dates in ascending order; a symbol that did not trade on a date gets NaN.
func (d *Dataset) Pivot(column string) (*PivotTable, error) {
	dateSet := make(map[time.Time]struct{})
	for _, r := range d.records {
		dateSet[r.Date] = struct{}{}
	}
	dates := make([]time.Time, 0, len(dateSet))
	for t := range dateSet {
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	dateIndex := make(map[time.Time]int, len(dates))
	for i, t := range dates {
		dateIndex[t] = i
	}
	symbolIndex := make(map[string]int, len(d.symbols))
	for j, s := range d.symbols {
		symbolIndex[s] = j
	}

	values := make([][]float64, len(dates))
	for i := range values {
		row := make([]float64, len(d.symbols))
		for j := range row {
			row[j] = math.NaN()
		}
		values[i] = row
	}

	for _, r := range d.records {
		v, err := r.ColumnValue(column)
		if err != nil {
			return nil, err
		}
		values[dateIndex[r.Date]][symbolIndex[r.Symbol]] = v
	}

	return &PivotTable{
		Dates:   dates,
		Symbols: append([]string(nil), d.symbols...),
		Values:  values,
	}, nil
}
