package rental

import (
	"fmt"

	"leasecli/pkg/contracts/domain"
)

// Horizon is the month window rent is projected over, plus the year whose
// months feed the statement subtotal. Months are listed in the order the
// output columns appear.
type Horizon struct {
	Months       []domain.YearMonth
	SubtotalYear int
}

// DefaultHorizon returns the production window: the first ten months of
// 2025 and all of 2026, with 2025 as the subtotal year.
func DefaultHorizon() Horizon {
	months := make([]domain.YearMonth, 0, 22)
	for m := 1; m <= 10; m++ {
		months = append(months, domain.YearMonth{Year: 2025, Month: m})
	}
	for m := 1; m <= 12; m++ {
		months = append(months, domain.YearMonth{Year: 2026, Month: m})
	}
	return Horizon{Months: months, SubtotalYear: 2025}
}

// MonthKeys returns the YYYY-MM column keys in horizon order.
func (h Horizon) MonthKeys() []string {
	keys := make([]string, len(h.Months))
	for i, ym := range h.Months {
		keys[i] = ym.Key()
	}
	return keys
}

// SubtotalColumn returns the statement column label for the subtotal year.
func (h Horizon) SubtotalColumn() string {
	return fmt.Sprintf("%d年租金之和", h.SubtotalYear)
}

// IsMonthKey reports whether the column label is one of the horizon's
// YYYY-MM keys.
func (h Horizon) IsMonthKey(label string) bool {
	for _, ym := range h.Months {
		if ym.Key() == label {
			return true
		}
	}
	return false
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func daysInMonth(year, month int) int {
	if month == 2 && isLeapYear(year) {
		return 29
	}
	return monthDays[month]
}
