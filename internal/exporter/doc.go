// Package exporter writes the combined dataset and its derived statistics
// to disk.
//
// CSVWriter: core CSV writing with optional UTF-8 BOM for Excel
// compatibility.
//
// CombinedExporter: the combined dataset as one CSV, per-symbol history
// files, and the per-symbol statistics CSV.
//
// ExcelExporter: the statistics summary workbook (summary sheet plus
// correlation sheet).
package exporter
