// Package exporter turns processed lease batches into downloadable reports.
//
// This package contains three main components:
//
// Table assembly: BuildTable flattens contract results into an ordered
// header plus string records, applying the fixed-point formatting the
// report contract requires for money columns.
//
// CSVWriter: CSV writing with UTF-8 BOM for Excel compatibility, plus a
// streaming variant for HTTP downloads.
//
// ExcelWriter: Workbook generation with the statistics sheet, usable
// against the filesystem or any io.Writer.
//
// Example usage:
//
//	table := exporter.BuildTable(outcome.Results, horizon)
//
//	csvWriter := exporter.NewCSVWriter(paths)
//	err := csvWriter.WriteTable(config.ResultsCSVName, table)
//
//	excelWriter := exporter.NewExcelWriter(paths)
//	err = excelWriter.WriteTable(config.ResultsXLSXName, table)
package exporter
