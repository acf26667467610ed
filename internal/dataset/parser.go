package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	apperrors "histcli/internal/errors"
	"histcli/pkg/contracts/domain"
)

// Source row layout: date,time,open,high,low,close,volume (no header).
const sourceFieldCount = 7

// ParseFile reads one per-symbol source file and returns its records tagged
// with the given symbol. The time field is discarded; only the calendar date
// is retained. Any malformed row fails the whole parse with a ParseError
// carrying file and row context.
func ParseFile(path, symbol string) ([]domain.PriceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputError("cannot open price file", err)
	}
	defer f.Close()

	return parseRows(f, filepath.Base(path), symbol)
}

func parseRows(r io.Reader, filename, symbol string) ([]domain.PriceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // field count checked per row for better errors

	var records []domain.PriceRecord
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, apperrors.NewParseError("malformed CSV row", filename, row, err)
		}
		if len(fields) != sourceFieldCount {
			return nil, apperrors.NewParseError(
				fmt.Sprintf("expected %d fields, got %d", sourceFieldCount, len(fields)),
				filename, row, nil)
		}

		date, err := parseCompactDate(fields[0])
		if err != nil {
			return nil, apperrors.NewParseError("invalid date", filename, row, err)
		}
		// fields[1] is the intraday time; the source carries no sub-daily
		// granularity worth keeping, so it is dropped here.

		open, err := parsePrice(fields[2], "open")
		if err != nil {
			return nil, apperrors.NewParseError(err.Error(), filename, row, nil)
		}
		high, err := parsePrice(fields[3], "high")
		if err != nil {
			return nil, apperrors.NewParseError(err.Error(), filename, row, nil)
		}
		low, err := parsePrice(fields[4], "low")
		if err != nil {
			return nil, apperrors.NewParseError(err.Error(), filename, row, nil)
		}
		closePrice, err := parsePrice(fields[5], "close")
		if err != nil {
			return nil, apperrors.NewParseError(err.Error(), filename, row, nil)
		}

		volume, err := strconv.ParseInt(fields[6], 10, 64)
		if err != nil {
			return nil, apperrors.NewParseError(fmt.Sprintf("invalid volume %q", fields[6]), filename, row, nil)
		}
		if volume < 0 {
			return nil, apperrors.NewParseError(fmt.Sprintf("negative volume %d", volume), filename, row, nil)
		}

		records = append(records, domain.PriceRecord{
			Symbol: symbol,
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return records, nil
}

// parseCompactDate parses the fixed-width YYYYMMDD date encoding into a
// UTC calendar date. Calendar validity is enforced: 20151301 is an error,
// not a best-effort date.
func parseCompactDate(s string) (time.Time, error) {
	if len(s) != 8 {
		return time.Time{}, fmt.Errorf("date %q is not 8 digits", s)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("date %q is not numeric", s)
		}
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	return t, nil
}

func parsePrice(s, column string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s price %q", column, s)
	}
	return v, nil
}
