package exporter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasecli/internal/rental"
	"leasecli/pkg/contracts/domain"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func sampleResult(t *testing.T) domain.ContractResult {
	t.Helper()
	return domain.ContractResult{
		Client:    "甲公司",
		Start:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Area:      dec(t, "100.5"),
		BasePrice: dec(t, "50"),
		Subtotal:  dec(t, "5.025"),
		Months: []domain.MonthEntry{
			{YearMonth: domain.YearMonth{Year: 2025, Month: 1}, Amount: dec(t, "0.5025")},
			{YearMonth: domain.YearMonth{Year: 2026, Month: 12}, Amount: dec(t, "0.5025")},
		},
	}
}

func TestBuildTableHeaders(t *testing.T) {
	horizon := rental.DefaultHorizon()
	table := BuildTable(nil, horizon)

	require.Len(t, table.Headers, 6+len(horizon.Months))
	assert.Equal(t, []string{
		"客户名称", "租赁起租日", "租赁截止日", "在租面积(㎡)", "初始租金(元/㎡)", "2025年租金之和",
	}, table.Headers[:6])
	assert.Equal(t, "2025-01", table.Headers[6])
	assert.Equal(t, "2025-10", table.Headers[15])
	assert.Equal(t, "2026-01", table.Headers[16])
	assert.Equal(t, "2026-12", table.Headers[len(table.Headers)-1])
	assert.Empty(t, table.Records)
}

func TestBuildTableRecord(t *testing.T) {
	horizon := rental.DefaultHorizon()
	table := BuildTable([]domain.ContractResult{sampleResult(t)}, horizon)

	require.Len(t, table.Records, 1)
	rec := table.Records[0]
	require.Len(t, rec, len(table.Headers))

	assert.Equal(t, "甲公司", rec[0])
	assert.Equal(t, "2025-01-01", rec[1])
	assert.Equal(t, "2026-12-31", rec[2])
	assert.Equal(t, "100.5", rec[3])
	// Money columns carry exactly six decimal places.
	assert.Equal(t, "50.000000", rec[4])
	assert.Equal(t, "5.025000", rec[5])
	assert.Equal(t, "0.502500", rec[6])
	assert.Equal(t, "0.502500", rec[len(rec)-1])
	// A month the result does not carry renders as zero rent.
	assert.Equal(t, "0.000000", rec[7])
}

func TestBuildTableMonthOrder(t *testing.T) {
	horizon := rental.DefaultHorizon()

	res := sampleResult(t)
	// Reverse the stored order; rendering must follow the horizon.
	res.Months = []domain.MonthEntry{
		{YearMonth: domain.YearMonth{Year: 2026, Month: 12}, Amount: dec(t, "2")},
		{YearMonth: domain.YearMonth{Year: 2025, Month: 1}, Amount: dec(t, "1")},
	}

	table := BuildTable([]domain.ContractResult{res}, horizon)
	rec := table.Records[0]
	assert.Equal(t, "1.000000", rec[6])
	assert.Equal(t, "2.000000", rec[len(rec)-1])
}

func TestBuildTableCustomHorizon(t *testing.T) {
	horizon := rental.Horizon{
		Months: []domain.YearMonth{
			{Year: 2030, Month: 1},
			{Year: 2030, Month: 2},
		},
		SubtotalYear: 2030,
	}

	table := BuildTable(nil, horizon)
	require.Len(t, table.Headers, 8)
	assert.Equal(t, "2030年租金之和", table.Headers[5])
	assert.Equal(t, "2030-01", table.Headers[6])
	assert.Equal(t, "2030-02", table.Headers[7])
}
