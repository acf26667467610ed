package exporter

import (
	"fmt"
	"math"
	"strconv"
)

// formatPrice formats a price for CSV output. Prices keep their full
// precision; trailing zeros are not padded because source data varies in
// decimal places.
func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatStat formats a derived statistic with 4 decimal places.
// NaN cells (e.g. correlation pairs with no overlap) come out empty.
func formatStat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.4f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}
