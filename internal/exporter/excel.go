package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"leasecli/internal/config"
)

// ExcelWriter generates report workbooks.
type ExcelWriter struct {
	paths *config.Paths
}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter(paths *config.Paths) *ExcelWriter {
	return &ExcelWriter{paths: paths}
}

// WriteTable writes a rendered report table as a workbook with the
// statistics sheet.
func (w *ExcelWriter) WriteTable(filePath string, table *Table) error {
	fullPath := filePath
	if !filepath.IsAbs(fullPath) && w.paths != nil {
		fullPath = w.paths.GetReportPath(fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	wb, err := buildWorkbook(table)
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := wb.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteWorkbookTo streams a rendered report table as a workbook to dst.
// Used for HTTP downloads where no file is involved.
func WriteWorkbookTo(dst io.Writer, table *Table) error {
	wb, err := buildWorkbook(table)
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := wb.Write(dst); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(table *Table) (*excelize.File, error) {
	wb := excelize.NewFile()

	sheet := config.ExportSheetName
	if err := wb.SetSheetName(wb.GetSheetName(0), sheet); err != nil {
		wb.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := wb.SetSheetRow(sheet, "A1", sheetRow(table.Headers)); err != nil {
		wb.Close()
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	for i, rec := range table.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			wb.Close()
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := wb.SetSheetRow(sheet, cell, sheetRow(rec)); err != nil {
			wb.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return wb, nil
}

func sheetRow(cells []string) *[]interface{} {
	vals := make([]interface{}, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	return &vals
}
