package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableNormalizesRowWidth(t *testing.T) {
	table := NewTable(
		[]string{ColClient, ColArea, ColBasePrice},
		[]Row{
			{TextValue("甲公司")},
			{TextValue("乙公司"), NumberValue(120.5), NumberValue(45), TextValue("overflow")},
		},
	)

	require.Equal(t, 2, table.RowCount())
	for _, row := range table.Rows {
		assert.Len(t, row, 3)
	}

	v, ok := table.Field(table.Rows[0], ColArea)
	require.True(t, ok)
	assert.True(t, v.IsEmpty())

	v, ok = table.Field(table.Rows[1], ColBasePrice)
	require.True(t, ok)
	assert.Equal(t, ValueNumber, v.Kind)
	assert.Equal(t, 45.0, v.Number)
}

func TestTableField(t *testing.T) {
	table := NewTable([]string{ColArea}, []Row{{NumberValue(88)}})

	tests := []struct {
		name     string
		column   string
		wantOK   bool
		wantKind ValueKind
	}{
		{name: "existing column", column: ColArea, wantOK: true, wantKind: ValueNumber},
		{name: "unknown column", column: ColClient, wantOK: false, wantKind: ValueEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := table.Field(table.Rows[0], tt.column)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, v.Kind)
		})
	}
}

func TestMissingColumns(t *testing.T) {
	table := NewTable([]string{ColArea, ColLeaseStart}, nil)

	missing := table.MissingColumns(RequiredColumns())
	assert.Equal(t, []string{ColBasePrice, ColLeaseEnd}, missing)

	assert.Nil(t, table.MissingColumns([]string{ColArea}))
}

func TestTextValueBlankIsEmpty(t *testing.T) {
	assert.True(t, TextValue("   ").IsEmpty())
	assert.True(t, TextValue("").IsEmpty())
	assert.False(t, TextValue("2025/3/5").IsEmpty())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "45721", NumberValue(45721).String())
	assert.Equal(t, "120.5", NumberValue(120.5).String())
	assert.Equal(t, "2025年3月", TextValue("2025年3月").String())
	assert.Equal(t, "", EmptyValue().String())
}

func TestYearMonthKey(t *testing.T) {
	assert.Equal(t, "2025-03", YearMonth{Year: 2025, Month: 3}.Key())
	assert.Equal(t, "2026-12", YearMonth{Year: 2026, Month: 12}.Key())
}
