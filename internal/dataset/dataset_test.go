package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histcli/pkg/contracts/domain"
)

func TestDatasetSymbols(t *testing.T) {
	ds := testDataset()
	assert.Equal(t, []string{"aapl", "msft"}, ds.Symbols())
	assert.True(t, ds.HasSymbol("aapl"))
	assert.False(t, ds.HasSymbol("ibm"))
}

func TestSymbolRecords(t *testing.T) {
	ds := testDataset()

	aapl := ds.SymbolRecords("aapl")
	require.Len(t, aapl, 2)
	assert.Equal(t, day(2015, 1, 2), aapl[0].Date)
	assert.Equal(t, day(2015, 1, 3), aapl[1].Date)

	assert.Empty(t, ds.SymbolRecords("ibm"))
}

func TestFilter(t *testing.T) {
	ds := testDataset()

	from := day(2015, 1, 3)
	got := ds.Filter(domain.RecordFilter{DateFrom: &from})
	require.Len(t, got, 1)
	assert.Equal(t, "aapl@2015-01-03", got[0].Key())

	got = ds.Filter(domain.RecordFilter{Symbols: []string{"msft"}})
	require.Len(t, got, 1)
	assert.Equal(t, "msft", got[0].Symbol)

	got = ds.Filter(domain.RecordFilter{})
	assert.Len(t, got, 3, "zero filter matches everything")
}

func TestColumn(t *testing.T) {
	ds := testDataset()

	closes, err := ds.Column(domain.ColumnClose)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101, 50}, closes)

	volumes, err := ds.Column(domain.ColumnVolume)
	require.NoError(t, err)
	assert.Equal(t, []float64{5000000, 4000000, 9000000}, volumes)

	_, err = ds.Column("bogus")
	assert.Error(t, err)
}

func TestDateRange(t *testing.T) {
	ds := testDataset()
	min, max, ok := ds.DateRange()
	require.True(t, ok)
	assert.Equal(t, day(2015, 1, 2), min)
	assert.Equal(t, day(2015, 1, 3), max)

	_, _, ok = Empty().DateRange()
	assert.False(t, ok)
}

func TestEqual(t *testing.T) {
	assert.True(t, testDataset().Equal(testDataset()))
	assert.False(t, testDataset().Equal(Empty()))

	other := newDataset([]domain.PriceRecord{
		{Symbol: "aapl", Date: time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC), Close: 999},
	})
	assert.False(t, testDataset().Equal(other))
}
