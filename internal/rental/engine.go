package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"leasecli/pkg/contracts/domain"
)

var tenThousand = decimal.NewFromInt(10000)

// Engine computes per-month prorated rent over a fixed horizon.
type Engine struct {
	horizon Horizon
	log     *BatchLog
}

// NewEngine creates a proration engine. Failures during proration are
// reported through the batch log.
func NewEngine(horizon Horizon, log *BatchLog) *Engine {
	if log == nil {
		log = NewBatchLog(nil)
	}
	return &Engine{horizon: horizon, log: log}
}

// Prorate walks every horizon month and computes the contract's rent for
// it. A month is active when the contract interval overlaps it at all;
// partial overlap counts as a full month. Active months price at the
// effective unit price on the month's first day:
//
//	rent = price × area / 10000
//
// Inactive months record zero. The subtotal sums only the subtotal year's
// months. Any failure is logged and degrades to (0, nil); callers must
// treat an empty month list as "could not compute", not as a legitimately
// all-zero schedule.
func (e *Engine) Prorate(ctx context.Context, term domain.ContractTerm) (subtotal decimal.Decimal, months []domain.MonthEntry) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error(ctx, fmt.Sprintf("合同租金计算错误: %v", r))
			subtotal, months = decimal.Zero, nil
		}
	}()

	subtotal = decimal.Zero
	months = make([]domain.MonthEntry, 0, len(e.horizon.Months))

	for _, ym := range e.horizon.Months {
		first := time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC)
		last := time.Date(ym.Year, time.Month(ym.Month), daysInMonth(ym.Year, ym.Month), 0, 0, 0, 0, time.UTC)

		amount := decimal.Zero
		if !term.Start.After(last) && !term.End.Before(first) {
			price := EffectivePrice(term, first)
			amount = price.Mul(term.Area).Div(tenThousand)
			if ym.Year == e.horizon.SubtotalYear {
				subtotal = subtotal.Add(amount)
			}
		}

		months = append(months, domain.MonthEntry{YearMonth: ym, Amount: amount})
	}

	return subtotal, months
}
