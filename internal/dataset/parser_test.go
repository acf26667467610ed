package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "histcli/internal/errors"
)

func writePriceFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseFile(t *testing.T) {
	path := writePriceFile(t, t.TempDir(), "table_aapl.csv",
		"20150102,093000,110.5,112.0,109.8,111.2,5000000\n"+
			"20150105,093000,111.0,113.3,110.9,112.8,4200000\n")

	records, err := ParseFile(path, "aapl")
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "aapl", r.Symbol)
	assert.Equal(t, time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, 110.5, r.Open)
	assert.Equal(t, 112.0, r.High)
	assert.Equal(t, 109.8, r.Low)
	assert.Equal(t, 111.2, r.Close)
	assert.Equal(t, int64(5000000), r.Volume)
}

func TestParseFileEmpty(t *testing.T) {
	path := writePriceFile(t, t.TempDir(), "table_aapl.csv", "")

	records, err := ParseFile(path, "aapl")
	require.NoError(t, err)
	assert.Empty(t, records, "empty file yields zero records without error")
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "table_nope.csv"), "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsInputError(err))
}

func TestParseFileMalformedRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "invalid month",
			content: "20151301,093000,1,1,1,1,100\n",
			wantMsg: "invalid date",
		},
		{
			name:    "invalid day",
			content: "20150230,093000,1,1,1,1,100\n",
			wantMsg: "invalid date",
		},
		{
			name:    "short date",
			content: "2015012,093000,1,1,1,1,100\n",
			wantMsg: "not 8 digits",
		},
		{
			name:    "non-numeric date",
			content: "2015010a,093000,1,1,1,1,100\n",
			wantMsg: "not numeric",
		},
		{
			name:    "too few fields",
			content: "20150102,093000,1,1,1,100\n",
			wantMsg: "expected 7 fields, got 6",
		},
		{
			name:    "too many fields",
			content: "20150102,093000,1,1,1,1,100,extra\n",
			wantMsg: "expected 7 fields, got 8",
		},
		{
			name:    "non-numeric close",
			content: "20150102,093000,1,1,1,abc,100\n",
			wantMsg: "invalid close price",
		},
		{
			name:    "non-numeric volume",
			content: "20150102,093000,1,1,1,1,1.5e3x\n",
			wantMsg: "invalid volume",
		},
		{
			name:    "negative volume",
			content: "20150102,093000,1,1,1,1,-5\n",
			wantMsg: "negative volume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePriceFile(t, t.TempDir(), "table_x.csv", tt.content)
			_, err := ParseFile(path, "x")
			require.Error(t, err)
			assert.True(t, apperrors.IsParseError(err), "want ParseError, got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), "table_x.csv", "error names the file")
		})
	}
}

func TestParseFileErrorReportsRow(t *testing.T) {
	content := "20150102,093000,1,1,1,1,100\n" +
		"20150103,093000,1,1,1,1,100\n" +
		"20151301,093000,1,1,1,1,100\n"
	path := writePriceFile(t, t.TempDir(), "table_aapl.csv", content)

	_, err := ParseFile(path, "aapl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseCompactDate(t *testing.T) {
	d, err := parseCompactDate("20240229")
	require.NoError(t, err, "leap day is valid")
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = parseCompactDate("20230229")
	assert.Error(t, err, "Feb 29 of a non-leap year is invalid")
}
