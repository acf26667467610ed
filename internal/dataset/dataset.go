package dataset

import (
	"time"

	"histcli/pkg/contracts/domain"
)

// Dataset is the validated, sorted, uniquely-keyed combined table of price
// records across all symbols. It is built once and never mutated; every
// query returns a derived view.
type Dataset struct {
	records []domain.PriceRecord
	symbols []string
	builtAt time.Time
}

// newDataset wraps an already sorted and validated record slice.
func newDataset(records []domain.PriceRecord) *Dataset {
	var symbols []string
	for i, r := range records {
		if i == 0 || records[i-1].Symbol != r.Symbol {
			symbols = append(symbols, r.Symbol)
		}
	}
	return &Dataset{
		records: records,
		symbols: symbols,
		builtAt: time.Now().UTC(),
	}
}

// Empty returns a valid dataset with no records.
func Empty() *Dataset {
	return newDataset(nil)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns the full record slice in (symbol, date) order.
// Callers must treat the slice as read-only.
func (d *Dataset) Records() []domain.PriceRecord {
	return d.records
}

// Symbols returns the distinct symbols in sorted order.
func (d *Dataset) Symbols() []string {
	return d.symbols
}

// HasSymbol reports whether the dataset contains any records for symbol.
func (d *Dataset) HasSymbol(symbol string) bool {
	for _, s := range d.symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// BuiltAt returns when this snapshot was constructed.
func (d *Dataset) BuiltAt() time.Time {
	return d.builtAt
}

// SymbolRecords returns the records for one symbol in date order.
func (d *Dataset) SymbolRecords(symbol string) []domain.PriceRecord {
	lo, hi := d.symbolRange(symbol)
	return d.records[lo:hi]
}

// symbolRange finds the half-open record index range of a symbol using the
// dataset's sort order.
func (d *Dataset) symbolRange(symbol string) (int, int) {
	lo := searchRecords(d.records, func(r domain.PriceRecord) bool {
		return r.Symbol >= symbol
	})
	hi := searchRecords(d.records, func(r domain.PriceRecord) bool {
		return r.Symbol > symbol
	})
	return lo, hi
}

func searchRecords(records []domain.PriceRecord, f func(domain.PriceRecord) bool) int {
	lo, hi := 0, len(records)
	for lo < hi {
		mid := (lo + hi) / 2
		if f(records[mid]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// FilterSymbols returns the records restricted to the given symbol set,
// preserving the dataset order.
func (d *Dataset) FilterSymbols(symbols []string) []domain.PriceRecord {
	return d.Filter(domain.RecordFilter{Symbols: symbols})
}

// Filter returns the records matching the filter, preserving order.
func (d *Dataset) Filter(f domain.RecordFilter) []domain.PriceRecord {
	var out []domain.PriceRecord
	for _, r := range d.records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Column returns the named numeric column across all records, in dataset
// order. Volume is widened to float64.
func (d *Dataset) Column(name string) ([]float64, error) {
	out := make([]float64, len(d.records))
	for i, r := range d.records {
		v, err := r.ColumnValue(name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// DateRange returns the earliest and latest record dates. The second return
// is false for an empty dataset.
func (d *Dataset) DateRange() (time.Time, time.Time, bool) {
	if len(d.records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max := d.records[0].Date, d.records[0].Date
	for _, r := range d.records[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, true
}

// Equal reports whether two datasets hold identical records in identical
// order. Build timestamps are ignored.
func (d *Dataset) Equal(other *Dataset) bool {
	if d.Len() != other.Len() {
		return false
	}
	for i := range d.records {
		if d.records[i] != other.records[i] {
			return false
		}
	}
	return true
}
