package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "leasecli/internal/errors"
	"leasecli/pkg/contracts/domain"
)

// naTokens are the markers spreadsheet tooling writes into cells that hold
// no value. Cells matching one of these load as empty, the same way a blank
// cell does.
var naTokens = map[string]struct{}{
	"nan":  {},
	"NaN":  {},
	"NAN":  {},
	"-nan": {},
	"-NaN": {},
	"n/a":  {},
	"N/A":  {},
	"NA":   {},
	"#N/A": {},
	"#NA":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"<NA>": {},
}

// SupportedExtensions lists the dataset formats the reader understands, in
// lowercase with the leading dot.
func SupportedExtensions() []string {
	return []string{".csv", ".xlsx", ".xls"}
}

// Read loads the dataset file at path. The file extension selects the
// decoder.
func Read(path string, logger *slog.Logger) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open dataset %s", filepath.Base(path)), err)
	}
	defer f.Close()

	return ReadFrom(f, filepath.Base(path), logger)
}

// ReadFrom decodes a dataset from r. The filename's extension selects the
// decoder; the stream is consumed fully.
func ReadFrom(r io.Reader, filename string, logger *slog.Logger) (*domain.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		table *domain.Table
		err   error
	)
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		table, err = readCSV(r)
	case ".xlsx", ".xls":
		table, err = readWorkbook(r)
	default:
		return nil, apperrors.NewWithDetails(
			apperrors.ErrUnsupportedFileType.StatusCode,
			apperrors.ErrUnsupportedFileType.ErrorCode,
			fmt.Sprintf("unsupported dataset format %q", ext),
			SupportedExtensions(),
		)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("dataset loaded",
		slog.String("file", filename),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.RowCount()))

	return table, nil
}

func readCSV(r io.Reader) (*domain.Table, error) {
	br := bufio.NewReader(r)
	stripBOM(br)

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse CSV dataset", err)
	}
	return buildTable(records)
}

func readWorkbook(r io.Reader) (*domain.Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook has no sheets", nil)
	}

	// Raw values keep date cells as day serials instead of locale-formatted
	// text, so they parse the same way from CSV and Excel input.
	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}
	return buildTable(rows)
}

func buildTable(records [][]string) (*domain.Table, error) {
	header, rest := splitHeader(records)
	if header == nil {
		return nil, apperrors.NewParsingError("dataset has no header row", nil)
	}

	columns := make([]string, len(header))
	copy(columns, header)

	rows := make([]domain.Row, 0, len(rest))
	for _, rec := range rest {
		if isBlankRecord(rec) {
			continue
		}
		row := make(domain.Row, len(rec))
		for i, cell := range rec {
			row[i] = typeCell(cell)
		}
		rows = append(rows, row)
	}

	return domain.NewTable(columns, rows), nil
}

// splitHeader locates the header row and returns it along with the
// records after it as data. Exports often carry title or note rows
// above the real header, so the first record holding a required column
// label wins; when no record does, the first non-blank one is taken and
// the schema check downstream reports what is missing.
func splitHeader(records [][]string) ([]string, [][]string) {
	required := domain.RequiredColumns()
	for i, rec := range records {
		if containsAnyLabel(rec, required) {
			return rec, records[i+1:]
		}
	}
	for i, rec := range records {
		if !isBlankRecord(rec) {
			return rec, records[i+1:]
		}
	}
	return nil, nil
}

func containsAnyLabel(rec []string, labels []string) bool {
	for _, cell := range rec {
		trimmed := strings.TrimSpace(cell)
		for _, label := range labels {
			if trimmed == label {
				return true
			}
		}
	}
	return false
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// typeCell infers the cell kind from its text. Numeric text becomes a
// number cell; strconv accepts "nan" and "inf" spellings, which must not
// leak through as numbers, so those stay textual unless caught by the NA
// markers above.
func typeCell(cell string) domain.Value {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return domain.EmptyValue()
	}
	if _, ok := naTokens[trimmed]; ok {
		return domain.EmptyValue()
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return domain.NumberValue(n)
	}
	return domain.TextValue(cell)
}

// stripBOM discards a UTF-8 byte order mark if the stream opens with one.
// Spreadsheet exports aimed at Excel routinely carry it.
func stripBOM(br *bufio.Reader) {
	rn, _, err := br.ReadRune()
	if err != nil {
		return
	}
	if rn != '\uFEFF' {
		br.UnreadRune()
	}
}
