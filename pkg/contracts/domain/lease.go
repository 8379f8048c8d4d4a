package domain

import (
	"strconv"
	"strings"
)

// Input column labels as they appear in the source lease workbooks.
// The labels are fixed by the upstream data owner, including the
// full-width parentheses in the area column.
const (
	ColArea       = "计租面积（㎡）"
	ColBasePrice  = "租金（㎡/元）"
	ColLeaseStart = "合同起租时间"
	ColLeaseEnd   = "合同到期时间"
	ColClient     = "企业名称"

	ColIncrease1Date  = "租金递增时间"
	ColIncrease1Price = "递增后单价"
	ColIncrease2Date  = "二次递增时间"
	ColIncrease2Price = "二次递增租金"
	ColIncrease3Date  = "三次递增时间"
	ColIncrease3Price = "三次递增租金"
)

// Output column labels for the result table.
const (
	OutColClient    = "客户名称"
	OutColStart     = "租赁起租日"
	OutColEnd       = "租赁截止日"
	OutColArea      = "在租面积(㎡)"
	OutColBasePrice = "初始租金(元/㎡)"
)

// UnknownClient is the sentinel client name for rows without 企业名称.
const UnknownClient = "未知客户"

// RequiredColumns returns the columns every dataset must carry. A
// dataset missing any of these fails the whole batch.
func RequiredColumns() []string {
	return []string{ColArea, ColBasePrice, ColLeaseStart, ColLeaseEnd}
}

// IncreasePair names one (effective date, new unit price) column pair.
type IncreasePair struct {
	DateColumn  string
	PriceColumn string
}

// IncreaseColumns returns the up to three price-increase column pairs in
// declaration order. Declaration order matters: same-dated increases
// resolve in favor of the later-declared pair.
func IncreaseColumns() []IncreasePair {
	return []IncreasePair{
		{DateColumn: ColIncrease1Date, PriceColumn: ColIncrease1Price},
		{DateColumn: ColIncrease2Date, PriceColumn: ColIncrease2Price},
		{DateColumn: ColIncrease3Date, PriceColumn: ColIncrease3Price},
	}
}

// ValueKind discriminates the raw cell representations a spreadsheet can
// deliver.
type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueNumber
	ValueText
)

// Value is one raw cell. Numeric cells keep both the parsed number and
// the original text so date serials and free-text survive side by side.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
}

// EmptyValue returns the absent-cell sentinel.
func EmptyValue() Value {
	return Value{Kind: ValueEmpty}
}

// NumberValue wraps a numeric cell.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n, Text: strconv.FormatFloat(n, 'f', -1, 64)}
}

// TextValue wraps a textual cell. Whitespace-only text degrades to the
// empty sentinel.
func TextValue(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{Kind: ValueEmpty}
	}
	return Value{Kind: ValueText, Text: s}
}

// IsEmpty reports whether the cell carries no value at all.
func (v Value) IsEmpty() bool {
	return v.Kind == ValueEmpty
}

// String returns the display form used in row-level error messages.
func (v Value) String() string {
	switch v.Kind {
	case ValueEmpty:
		return ""
	case ValueNumber:
		if v.Text != "" {
			return v.Text
		}
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return v.Text
	}
}

// Row is one record of raw cells, aligned with Table.Columns.
type Row []Value

// Table is the raw tabular dataset handed to the batch processor. The
// column order is the source order; rows are padded to the column count
// on construction. The core never mutates a table.
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// NewTable builds a table over the given header and rows. Short rows are
// padded with empty cells, long rows truncated to the header width. When
// a column label repeats, the first occurrence wins.
func NewTable(columns []string, rows []Row) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}

	width := len(columns)
	normalized := make([]Row, len(rows))
	for i, r := range rows {
		row := make(Row, width)
		for j := range row {
			if j < len(r) {
				row[j] = r[j]
			} else {
				row[j] = EmptyValue()
			}
		}
		normalized[i] = row
	}

	return &Table{Columns: columns, Rows: normalized, index: index}
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MissingColumns returns the subset of names absent from the table, in
// the order given.
func (t *Table) MissingColumns(names []string) []string {
	var missing []string
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Field extracts the named cell from a row of this table. The second
// return is false when the column does not exist; an existing column
// with a blank cell yields the empty sentinel and true.
func (t *Table) Field(r Row, name string) (Value, bool) {
	i, ok := t.index[name]
	if !ok || i >= len(r) {
		return EmptyValue(), false
	}
	return r[i], true
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}
