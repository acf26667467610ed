package domain

import (
	"time"
)

// RecordFilter restricts a dataset query to a symbol subset and/or date range.
// A zero filter matches every record.
type RecordFilter struct {
	Symbols  []string   `json:"symbols,omitempty" validate:"omitempty,dive,min=1,max=10"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}

// Matches reports whether the record passes the filter.
func (f RecordFilter) Matches(r PriceRecord) bool {
	if len(f.Symbols) > 0 {
		found := false
		for _, s := range f.Symbols {
			if s == r.Symbol {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.DateFrom != nil && r.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && r.Date.After(*f.DateTo) {
		return false
	}
	return true
}

// SymbolStats holds per-symbol descriptive statistics for one numeric column.
type SymbolStats struct {
	Symbol string  `json:"symbol"`
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	First  string  `json:"first_date"`
	Last   string  `json:"last_date"`
}
