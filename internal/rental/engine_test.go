package rental

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasecli/pkg/contracts/domain"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultHorizon(), NewBatchLog(discardLogger()))
}

func monthAmount(t *testing.T, months []domain.MonthEntry, key string) decimal.Decimal {
	t.Helper()
	for _, m := range months {
		if m.Key() == key {
			return m.Amount
		}
	}
	t.Fatalf("month %s not found", key)
	return decimal.Zero
}

func TestProrateFullHorizon(t *testing.T) {
	engine := newTestEngine()

	term := domain.ContractTerm{
		Start:     date(2024, time.January, 1),
		End:       date(2027, time.December, 31),
		Area:      dec("100"),
		BasePrice: dec("50"),
	}

	subtotal, months := engine.Prorate(context.Background(), term)

	require.Len(t, months, 22)
	for _, m := range months {
		assert.True(t, m.Amount.Equal(dec("0.5")), "month %s: want 0.5, got %s", m.Key(), m.Amount)
	}
	// Ten subtotal-year months at 0.5 each.
	assert.True(t, subtotal.Equal(dec("5")), "want subtotal 5, got %s", subtotal)
}

func TestProrateMidMonthStartActivatesMonth(t *testing.T) {
	engine := newTestEngine()

	term := domain.ContractTerm{
		Start:     date(2025, time.March, 15),
		End:       date(2026, time.December, 31),
		Area:      dec("100"),
		BasePrice: dec("50"),
	}

	subtotal, months := engine.Prorate(context.Background(), term)

	// Partial overlap counts as a fully active month.
	assert.True(t, monthAmount(t, months, "2025-03").Equal(dec("0.5")))
	assert.True(t, monthAmount(t, months, "2025-02").IsZero())
	assert.True(t, monthAmount(t, months, "2025-01").IsZero())
	assert.True(t, monthAmount(t, months, "2026-12").Equal(dec("0.5")))

	// March through October of the subtotal year.
	assert.True(t, subtotal.Equal(dec("4")), "want subtotal 4, got %s", subtotal)
}

func TestProrateEndMidMonthActivatesMonth(t *testing.T) {
	engine := newTestEngine()

	term := domain.ContractTerm{
		Start:     date(2025, time.January, 1),
		End:       date(2025, time.June, 10),
		Area:      dec("100"),
		BasePrice: dec("50"),
	}

	_, months := engine.Prorate(context.Background(), term)

	assert.True(t, monthAmount(t, months, "2025-06").Equal(dec("0.5")))
	assert.True(t, monthAmount(t, months, "2025-07").IsZero())
}

func TestProrateOutsideHorizon(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"entirely before", date(2023, time.January, 1), date(2024, time.December, 31)},
		{"entirely after", date(2027, time.January, 1), date(2028, time.December, 31)},
		{"gap months only", date(2025, time.November, 1), date(2025, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := domain.ContractTerm{
				Start:     tt.start,
				End:       tt.end,
				Area:      dec("100"),
				BasePrice: dec("50"),
			}

			subtotal, months := engine.Prorate(context.Background(), term)

			require.Len(t, months, 22)
			for _, m := range months {
				assert.True(t, m.Amount.IsZero(), "month %s must be zero", m.Key())
			}
			assert.True(t, subtotal.IsZero())
		})
	}
}

func TestProrateEndBeforeStart(t *testing.T) {
	engine := newTestEngine()

	// Not validated; the overlap test clamps it to zero active months.
	term := domain.ContractTerm{
		Start:     date(2026, time.June, 1),
		End:       date(2025, time.June, 1),
		Area:      dec("100"),
		BasePrice: dec("50"),
	}

	subtotal, months := engine.Prorate(context.Background(), term)

	require.Len(t, months, 22)
	for _, m := range months {
		assert.True(t, m.Amount.IsZero())
	}
	assert.True(t, subtotal.IsZero())
}

func TestProrateAppliesIncreases(t *testing.T) {
	engine := newTestEngine()

	term := domain.ContractTerm{
		Start:     date(2025, time.January, 1),
		End:       date(2026, time.December, 31),
		Area:      dec("100"),
		BasePrice: dec("50"),
		Increases: []domain.PriceIncrease{
			{Date: date(2025, time.June, 1), Price: dec("100")},
		},
	}

	subtotal, months := engine.Prorate(context.Background(), term)

	assert.True(t, monthAmount(t, months, "2025-05").Equal(dec("0.5")))
	assert.True(t, monthAmount(t, months, "2025-06").Equal(dec("1")))
	assert.True(t, monthAmount(t, months, "2026-01").Equal(dec("1")))

	// Jan-May at 0.5 plus Jun-Oct at 1.
	assert.True(t, subtotal.Equal(dec("7.5")), "want subtotal 7.5, got %s", subtotal)
}

func TestProrateIncreaseMidMonthAppliesNextMonth(t *testing.T) {
	engine := newTestEngine()

	// Months price at their first day, so a mid-month increase only shows
	// up the following month.
	term := domain.ContractTerm{
		Start:     date(2025, time.January, 1),
		End:       date(2026, time.December, 31),
		Area:      dec("100"),
		BasePrice: dec("50"),
		Increases: []domain.PriceIncrease{
			{Date: date(2025, time.June, 15), Price: dec("100")},
		},
	}

	_, months := engine.Prorate(context.Background(), term)

	assert.True(t, monthAmount(t, months, "2025-06").Equal(dec("0.5")))
	assert.True(t, monthAmount(t, months, "2025-07").Equal(dec("1")))
}

func TestProrateZeroBasePrice(t *testing.T) {
	engine := newTestEngine()

	term := domain.ContractTerm{
		Start:     date(2025, time.January, 1),
		End:       date(2026, time.December, 31),
		Area:      dec("100"),
		BasePrice: decimal.Zero,
	}

	subtotal, months := engine.Prorate(context.Background(), term)

	require.Len(t, months, 22)
	for _, m := range months {
		assert.True(t, m.Amount.IsZero())
	}
	assert.True(t, subtotal.IsZero())
}

func TestProrateSecondYearExcludedFromSubtotal(t *testing.T) {
	engine := newTestEngine()

	term := domain.ContractTerm{
		Start:     date(2026, time.January, 1),
		End:       date(2026, time.December, 31),
		Area:      dec("100"),
		BasePrice: dec("50"),
	}

	subtotal, months := engine.Prorate(context.Background(), term)

	assert.True(t, subtotal.IsZero(), "2026 months must not feed the 2025 subtotal")
	assert.True(t, monthAmount(t, months, "2026-01").Equal(dec("0.5")))
	assert.True(t, monthAmount(t, months, "2025-10").IsZero())
}

func TestProrateCustomHorizon(t *testing.T) {
	horizon := Horizon{
		Months: []domain.YearMonth{
			{Year: 2024, Month: 1},
			{Year: 2024, Month: 2},
		},
		SubtotalYear: 2024,
	}
	engine := NewEngine(horizon, NewBatchLog(discardLogger()))

	term := domain.ContractTerm{
		Start:     date(2024, time.February, 29), // leap day boundary
		End:       date(2024, time.December, 31),
		Area:      dec("100"),
		BasePrice: dec("50"),
	}

	subtotal, months := engine.Prorate(context.Background(), term)

	require.Len(t, months, 2)
	assert.True(t, monthAmount(t, months, "2024-01").IsZero())
	assert.True(t, monthAmount(t, months, "2024-02").Equal(dec("0.5")), "leap day must land inside February")
	assert.True(t, subtotal.Equal(dec("0.5")))
}
