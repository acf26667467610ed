package domain

import (
	"fmt"
	"time"
)

// PriceRecord represents one day of trading data for one symbol.
// The (Symbol, Date) pair uniquely identifies a record within a dataset.
type PriceRecord struct {
	Symbol string    `json:"symbol" csv:"Symbol" validate:"required,min=1,max=10"`
	Date   time.Time `json:"date" csv:"Date"`
	Open   float64   `json:"open" csv:"Open" validate:"min=0"`
	High   float64   `json:"high" csv:"High" validate:"min=0"`
	Low    float64   `json:"low" csv:"Low" validate:"min=0"`
	Close  float64   `json:"close" csv:"Close" validate:"min=0"`
	Volume int64     `json:"volume" csv:"Volume" validate:"min=0"`
}

// Key returns the canonical "symbol@YYYY-MM-DD" identity of the record.
func (r PriceRecord) Key() string {
	return fmt.Sprintf("%s@%s", r.Symbol, r.Date.Format("2006-01-02"))
}

// Less reports whether r sorts before other under the (symbol, date) order.
func (r PriceRecord) Less(other PriceRecord) bool {
	if r.Symbol != other.Symbol {
		return r.Symbol < other.Symbol
	}
	return r.Date.Before(other.Date)
}

// Column names addressable through Dataset.Column and the query API.
const (
	ColumnOpen   = "open"
	ColumnHigh   = "high"
	ColumnLow    = "low"
	ColumnClose  = "close"
	ColumnVolume = "volume"
)

// Columns lists every addressable numeric column in canonical order.
func Columns() []string {
	return []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}
}

// IsColumn reports whether name addresses a numeric column.
func IsColumn(name string) bool {
	switch name {
	case ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume:
		return true
	}
	return false
}

// ColumnValue returns the named numeric field of the record.
// Volume is widened to float64 so all columns share one accessor.
func (r PriceRecord) ColumnValue(name string) (float64, error) {
	switch name {
	case ColumnOpen:
		return r.Open, nil
	case ColumnHigh:
		return r.High, nil
	case ColumnLow:
		return r.Low, nil
	case ColumnClose:
		return r.Close, nil
	case ColumnVolume:
		return float64(r.Volume), nil
	default:
		return 0, fmt.Errorf("unknown column: %s", name)
	}
}
