// Package dataset builds and queries the combined multi-symbol daily price
// table.
//
// # Architecture
//
// The package has three parts:
//
//  1. Parser: reads one per-symbol CSV source file (date,time,open,high,
//     low,close,volume; no header) into PriceRecords, discarding the
//     uninformative time field.
//  2. Builder: discovers all table_<symbol>.csv files in a directory,
//     parses them (optionally in parallel), concatenates, sorts by
//     (symbol, date) and validates key uniqueness and ordering.
//  3. Queries: read-only views over the validated Dataset - column
//     selection, symbol filtering, group-by aggregation and the long-to-wide
//     pivot used by downstream statistics.
//
// # Error Handling
//
// Every failure is fail-fast and typed: InputError for unreadable sources,
// ParseError with file/row context for malformed rows, ValidationError with
// the offending key for invariant violations. There is no partial-result
// mode; a build either yields a fully validated dataset or an error.
package dataset
