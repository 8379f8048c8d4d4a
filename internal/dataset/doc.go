// Package dataset loads uploaded lease spreadsheets into the tabular form
// the rental pipeline consumes.
//
// The reader accepts CSV and Excel workbooks and normalizes both into a
// domain.Table of typed cells. Cells that parse as numbers are kept numeric
// so Excel day serials survive a CSV round trip, blank cells and the usual
// spreadsheet missing-data markers load as empty, and everything else stays
// text. The first non-blank row is taken as the header; fully blank data
// rows are dropped.
//
// The reader makes no judgement about which columns a dataset must carry.
// Schema validation belongs to the processing stage, which fails a batch
// with a column-level message when required fields are absent.
package dataset
