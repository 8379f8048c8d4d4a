package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"leasecli/internal/rental"
	"leasecli/pkg/contracts/domain"
)

// topClientCount caps the client ranking length.
const topClientCount = 10

// Summary aggregates a processed batch for the dashboard. All money
// totals are rendered with the same six decimal places as report cells.
type Summary struct {
	ResultCount  int    `json:"result_count"`
	SubtotalYear int    `json:"subtotal_year"`
	ForecastYear int    `json:"forecast_year"`
	SubtotalRent string `json:"subtotal_rent"`
	ForecastRent string `json:"forecast_rent"`

	MonthlyForecast []MonthTotal `json:"monthly_forecast"`
	TopClients      []ClientRent `json:"top_clients"`
}

// MonthTotal is the rent sum of one forecast-year month across all
// contracts.
type MonthTotal struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Total string `json:"total"`
}

// ClientRent is one entry of the client ranking: subtotal-year rent summed
// over every contract sharing the client name.
type ClientRent struct {
	Client string `json:"client"`
	Total  string `json:"total"`
}

// BuildSummary computes the dashboard summary for one outcome: the
// subtotal-year total, the forecast-year total with its per-month
// breakdown, and the top clients ranked by subtotal-year rent.
func BuildSummary(outcome *domain.Outcome, horizon rental.Horizon) *Summary {
	forecastYear := horizon.SubtotalYear + 1

	s := &Summary{
		ResultCount:  0,
		SubtotalYear: horizon.SubtotalYear,
		ForecastYear: forecastYear,
	}

	var results []domain.ContractResult
	if outcome != nil {
		results = outcome.Results
	}
	s.ResultCount = len(results)

	subtotal := decimal.Zero
	for _, res := range results {
		subtotal = subtotal.Add(res.Subtotal)
	}
	s.SubtotalRent = subtotal.StringFixed(6)

	forecast := decimal.Zero
	for _, ym := range horizon.Months {
		if ym.Year != forecastYear {
			continue
		}
		monthTotal := decimal.Zero
		for _, res := range results {
			for _, m := range res.Months {
				if m.YearMonth == ym {
					monthTotal = monthTotal.Add(m.Amount)
				}
			}
		}
		forecast = forecast.Add(monthTotal)
		s.MonthlyForecast = append(s.MonthlyForecast, MonthTotal{
			Key:   ym.Key(),
			Label: fmt.Sprintf("%d月", ym.Month),
			Total: monthTotal.StringFixed(6),
		})
	}
	s.ForecastRent = forecast.StringFixed(6)

	s.TopClients = rankClients(results)
	return s
}

// rankClients groups results by client name, sums the subtotal-year rent
// per client, and returns the top entries by descending total. Clients
// with equal totals keep name order.
func rankClients(results []domain.ContractResult) []ClientRent {
	totals := make(map[string]decimal.Decimal)
	for _, res := range results {
		totals[res.Client] = totals[res.Client].Add(res.Subtotal)
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return totals[names[i]].GreaterThan(totals[names[j]])
	})

	if len(names) > topClientCount {
		names = names[:topClientCount]
	}

	ranked := make([]ClientRent, 0, len(names))
	for _, name := range names {
		ranked = append(ranked, ClientRent{
			Client: name,
			Total:  totals[name].StringFixed(6),
		})
	}
	return ranked
}
