package rental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasecli/pkg/contracts/domain"
)

func TestDefaultHorizon(t *testing.T) {
	h := DefaultHorizon()

	require.Len(t, h.Months, 22)
	assert.Equal(t, 2025, h.SubtotalYear)

	assert.Equal(t, domain.YearMonth{Year: 2025, Month: 1}, h.Months[0])
	assert.Equal(t, domain.YearMonth{Year: 2025, Month: 10}, h.Months[9])
	assert.Equal(t, domain.YearMonth{Year: 2026, Month: 1}, h.Months[10])
	assert.Equal(t, domain.YearMonth{Year: 2026, Month: 12}, h.Months[21])

	keys := h.MonthKeys()
	require.Len(t, keys, 22)
	assert.Equal(t, "2025-01", keys[0])
	assert.Equal(t, "2025-10", keys[9])
	assert.Equal(t, "2026-01", keys[10])
	assert.Equal(t, "2026-12", keys[21])
}

func TestSubtotalColumn(t *testing.T) {
	assert.Equal(t, "2025年租金之和", DefaultHorizon().SubtotalColumn())

	h := Horizon{SubtotalYear: 2030}
	assert.Equal(t, "2030年租金之和", h.SubtotalColumn())
}

func TestIsMonthKey(t *testing.T) {
	h := DefaultHorizon()

	assert.True(t, h.IsMonthKey("2025-01"))
	assert.True(t, h.IsMonthKey("2026-12"))
	assert.False(t, h.IsMonthKey("2025-11"))
	assert.False(t, h.IsMonthKey("2024-01"))
	assert.False(t, h.IsMonthKey("客户名称"))
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2025, 1, 31},
		{2025, 2, 28},
		{2024, 2, 29},   // leap
		{2000, 2, 29},   // divisible by 400
		{1900, 2, 28},   // divisible by 100, not 400
		{2025, 4, 30},
		{2025, 12, 31},
		{2026, 2, 28},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, daysInMonth(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, isLeapYear(2024))
	assert.True(t, isLeapYear(2000))
	assert.False(t, isLeapYear(2025))
	assert.False(t, isLeapYear(1900))
	assert.False(t, isLeapYear(2100))
}
