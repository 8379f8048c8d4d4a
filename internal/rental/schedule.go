package rental

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"leasecli/pkg/contracts/domain"
)

// EffectivePrice resolves the unit price in force on the target date.
//
// A contract with a zero base price has no resolvable schedule and always
// prices at zero. Increase events only participate when they carry a
// positive price and a real date. Events are sorted by effective date and
// folded in order: each event whose date is on or before the target
// replaces the current price, so the latest applicable increase wins.
// Events sharing a date keep their declaration order and the later-declared
// one prevails. Increases are replacements, not cumulative additions.
func EffectivePrice(term domain.ContractTerm, target time.Time) decimal.Decimal {
	if term.BasePrice.IsZero() {
		return decimal.Zero
	}

	events := make([]domain.PriceIncrease, 0, len(term.Increases))
	for _, inc := range term.Increases {
		if inc.Price.Sign() > 0 && !inc.Date.IsZero() {
			events = append(events, inc)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	price := term.BasePrice
	for _, ev := range events {
		if !ev.Date.After(target) {
			price = ev.Price
		}
	}
	return price
}
