package services

import "errors"

// Sentinel errors returned by the data service.
var (
	// ErrDatasetNotBuilt is returned when a query arrives before the first
	// successful build.
	ErrDatasetNotBuilt = errors.New("dataset not built yet")
	// ErrUnknownColumn is returned for a column name outside the record schema.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrSymbolNotFound is returned when a query names a symbol absent from
	// the dataset.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrUnknownAggregate is returned for an aggregate function other than
	// sum or mean.
	ErrUnknownAggregate = errors.New("unknown aggregate function")
)
