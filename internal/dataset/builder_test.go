package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "histcli/internal/errors"
)

const (
	aaplRows = "20150102,093000,100.0,101.0,99.0,100.0,5000000\n" +
		"20150103,093000,100.5,102.0,100.0,101.0,4000000\n"
	msftRows = "20150102,093000,49.5,50.5,49.0,50.0,9000000\n"
)

func TestBuildEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writePriceFile(t, dir, "table_aapl.csv", aaplRows)
	writePriceFile(t, dir, "table_msft.csv", msftRows)

	b := NewBuilder(slog.Default())
	ds, err := b.Build(context.Background(), dir)
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	records := ds.Records()
	assert.Equal(t, "aapl@2015-01-02", records[0].Key())
	assert.Equal(t, "aapl@2015-01-03", records[1].Key())
	assert.Equal(t, "msft@2015-01-02", records[2].Key())
	assert.Equal(t, []string{"aapl", "msft"}, ds.Symbols())

	sums, err := ds.GroupBySymbolSum("volume")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"aapl": 9000000, "msft": 9000000}, sums)
}

func TestBuildSortedAndUnique(t *testing.T) {
	dir := t.TempDir()
	// Rows deliberately out of date order within the file.
	writePriceFile(t, dir, "table_zzz.csv",
		"20150105,093000,1,1,1,1,10\n"+
			"20150102,093000,1,1,1,1,20\n")
	writePriceFile(t, dir, "table_aaa.csv",
		"20150103,093000,2,2,2,2,30\n")

	ds, err := NewBuilder(slog.Default()).Build(context.Background(), dir)
	require.NoError(t, err)

	records := ds.Records()
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].Less(records[i]),
			"records must be strictly increasing by (symbol, date)")
	}
}

func TestBuildEmptyDirectory(t *testing.T) {
	ds, err := NewBuilder(slog.Default()).Build(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Symbols())
}

func TestBuildEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writePriceFile(t, dir, "table_aapl.csv", aaplRows)
	writePriceFile(t, dir, "table_void.csv", "")

	ds, err := NewBuilder(slog.Default()).Build(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"aapl"}, ds.Symbols(), "empty file contributes no symbol")
}

func TestBuildMissingDirectory(t *testing.T) {
	_, err := NewBuilder(slog.Default()).Build(context.Background(),
		filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, apperrors.IsInputError(err))
}

func TestBuildMalformedDateFailsWhole(t *testing.T) {
	dir := t.TempDir()
	writePriceFile(t, dir, "table_aapl.csv", aaplRows)
	writePriceFile(t, dir, "table_bad.csv", "20151301,093000,1,1,1,1,100\n")

	_, err := NewBuilder(slog.Default()).Build(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))
	assert.Contains(t, err.Error(), "table_bad.csv")
}

func TestBuildDuplicateKeyAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	// Two files that both resolve to symbol "aapl" and overlap on a date.
	writePriceFile(t, dir, "table_aapl.csv", aaplRows)
	writePriceFile(t, dir, "table_AAPL.csv", "20150102,093000,1,1,1,1,100\n")

	_, err := NewBuilder(slog.Default()).Build(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Contains(t, err.Error(), "aapl@2015-01-02")
}

func TestBuildIdempotent(t *testing.T) {
	dir := t.TempDir()
	writePriceFile(t, dir, "table_aapl.csv", aaplRows)
	writePriceFile(t, dir, "table_msft.csv", msftRows)

	b := NewBuilder(slog.Default(), WithWorkers(4))
	first, err := b.Build(context.Background(), dir)
	require.NoError(t, err)
	second, err := b.Build(context.Background(), dir)
	require.NoError(t, err)

	assert.True(t, first.Equal(second), "same directory must build equal datasets")
}

func TestBuildSingleFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writePriceFile(t, dir, "table_aapl.csv", aaplRows)

	ds, err := NewBuilder(slog.Default()).Build(context.Background(), dir)
	require.NoError(t, err)

	direct, err := ParseFile(filepath.Join(dir, "table_aapl.csv"), "aapl")
	require.NoError(t, err)

	filtered := ds.FilterSymbols([]string{"aapl"})
	require.Len(t, filtered, len(direct))
	for i := range direct {
		assert.Equal(t, direct[i], filtered[i])
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []struct{ name, rows string }{
		{"table_aapl.csv", aaplRows},
		{"table_msft.csv", msftRows},
		{"table_ibm.csv", "20150102,093000,160,161,159,160.5,2000000\n"},
		{"table_orcl.csv", "20150103,093000,44,45,43,44.5,3000000\n"},
	} {
		writePriceFile(t, dir, f.name, f.rows)
	}

	seq, err := NewBuilder(slog.Default()).Build(context.Background(), dir)
	require.NoError(t, err)
	par, err := NewBuilder(slog.Default(), WithWorkers(4)).Build(context.Background(), dir)
	require.NoError(t, err)

	assert.True(t, seq.Equal(par))
}

func TestBuildProgressEvents(t *testing.T) {
	dir := t.TempDir()
	writePriceFile(t, dir, "table_aapl.csv", aaplRows)
	writePriceFile(t, dir, "table_msft.csv", msftRows)

	var mu sync.Mutex
	var events []BuildProgress
	b := NewBuilder(slog.Default(), WithProgress(func(p BuildProgress) {
		mu.Lock()
		events = append(events, p)
		mu.Unlock()
	}))

	_, err := b.Build(context.Background(), dir)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 3, "one event per file plus the final one")
	final := events[len(events)-1]
	assert.True(t, final.Done)
	assert.Equal(t, 2, final.FilesTotal)
	assert.Equal(t, 3, final.RecordCount)
}

func TestBuildCancelled(t *testing.T) {
	dir := t.TempDir()
	writePriceFile(t, dir, "table_aapl.csv", aaplRows)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context either aborts before parsing or after; the build
	// must not hang either way.
	done := make(chan struct{})
	go func() {
		NewBuilder(slog.Default()).Build(ctx, dir)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("build did not return under a cancelled context")
	}
}
