package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"leasecli/internal/config"
)

// utf8BOM helps Excel recognize UTF-8 content, which matters for the
// Chinese column labels.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := writeCSVStream(file, options); err != nil {
		return err
	}
	return file.Close()
}

// WriteTable writes a rendered report table as CSV with a BOM prefix.
func (w *CSVWriter) WriteTable(filePath string, table *Table) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   table.Headers,
		Records:   table.Records,
		BOMPrefix: true,
	})
}

// WriteCSVTo streams a rendered report table as CSV to dst. Used for HTTP
// downloads where no file is involved.
func WriteCSVTo(dst io.Writer, table *Table, bomPrefix bool) error {
	return writeCSVStream(dst, WriteOptions{
		Headers:   table.Headers,
		Records:   table.Records,
		BOMPrefix: bomPrefix,
	})
}

func writeCSVStream(dst io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := dst.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(dst)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// resolvePath resolves a path to the appropriate directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	if w.paths == nil {
		return filePath
	}

	// Report files are the default; uploads are the only other CSV home.
	if strings.HasPrefix(filePath, "uploads/") {
		return w.paths.GetUploadPath(strings.TrimPrefix(filePath, "uploads/"))
	}
	return w.paths.GetReportPath(filePath)
}
