package exporter

import (
	"github.com/shopspring/decimal"

	"leasecli/internal/rental"
	"leasecli/pkg/contracts/domain"
)

// dateLayout is the rendering format for contract dates in reports.
const dateLayout = "2006-01-02"

// Table is a fully rendered report: an ordered header row plus one string
// record per contract. Every consumer of a processed batch (CSV download,
// workbook download, the results view) renders from the same Table so the
// three never disagree.
type Table struct {
	Headers []string   `json:"headers"`
	Records [][]string `json:"records"`
}

// BuildTable flattens contract results into the report layout: client and
// contract dates, area, initial unit price, the subtotal-year rent sum, then
// one column per horizon month. Rent columns carry exactly six decimal
// places; the remaining columns use their natural string form.
func BuildTable(results []domain.ContractResult, horizon rental.Horizon) *Table {
	monthKeys := horizon.MonthKeys()

	headers := make([]string, 0, 6+len(monthKeys))
	headers = append(headers,
		domain.OutColClient,
		domain.OutColStart,
		domain.OutColEnd,
		domain.OutColArea,
		domain.OutColBasePrice,
		horizon.SubtotalColumn(),
	)
	headers = append(headers, monthKeys...)

	records := make([][]string, 0, len(results))
	for _, res := range results {
		records = append(records, buildRecord(res, monthKeys))
	}

	return &Table{Headers: headers, Records: records}
}

func buildRecord(res domain.ContractResult, monthKeys []string) []string {
	rec := make([]string, 0, 6+len(monthKeys))
	rec = append(rec,
		res.Client,
		res.Start.Format(dateLayout),
		res.End.Format(dateLayout),
		res.Area.String(),
		formatMoney(res.BasePrice),
		formatMoney(res.Subtotal),
	)

	byKey := make(map[string]decimal.Decimal, len(res.Months))
	for _, m := range res.Months {
		byKey[m.Key()] = m.Amount
	}
	// Months render in horizon order regardless of how the result stores
	// them; a month the result lacks renders as zero rent.
	for _, key := range monthKeys {
		rec = append(rec, formatMoney(byKey[key]))
	}

	return rec
}

// formatMoney renders rent amounts with the six decimal places the report
// contract fixes for every money column.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(6)
}
