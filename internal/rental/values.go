package rental

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"leasecli/pkg/contracts/domain"
)

// Placeholder tokens that mark an absent date cell. The amount set is
// narrower: dashes and null markers only show up in date columns.
var (
	dateEmptyMarkers = map[string]struct{}{
		"": {}, "-": {}, "/": {}, "nan": {}, "None": {}, "—": {}, "——": {}, "//": {},
	}
	amountEmptyMarkers = map[string]struct{}{
		"": {}, "-": {}, "/": {},
	}
)

// Chinese calendar notation, most specific first. Matching is anchored at
// the start only, so trailing text after a match is tolerated.
var chineseDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日?`),
	regexp.MustCompile(`^(\d{4})年(\d{1,2})月`),
	regexp.MustCompile(`^(\d{4})年`),
}

var dateLayouts = []string{
	"2006/1/2", "2006.1.2", "2006-1-2",
	"2006/1", "2006.1", "2006-1",
	"20060102", "2006-1-2 15:04:05",
}

var amountUnitReplacer = strings.NewReplacer("元", "", "㎡", "")

// excelEpoch is serial day 0 in the Excel 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate normalizes a raw cell into a calendar date. It accepts Excel
// serial numbers, Chinese calendar notation with missing components
// defaulting to the period start, and the numeric formats seen in the
// source spreadsheets. Time-of-day components are discarded. The second
// return value is false when the cell is empty, a placeholder token, or
// matches no known notation; ParseDate never fails harder than that.
func ParseDate(v domain.Value) (time.Time, bool) {
	switch v.Kind {
	case domain.ValueEmpty:
		return time.Time{}, false
	case domain.ValueNumber:
		return dateFromSerial(v.Number)
	}

	s := strings.TrimSpace(v.Text)
	if _, ok := dateEmptyMarkers[s]; ok {
		return time.Time{}, false
	}

	for i, pattern := range chineseDatePatterns {
		m := pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, day := 1, 1
		if i <= 1 {
			month, _ = strconv.Atoi(m[2])
		}
		if i == 0 {
			day, _ = strconv.Atoi(m[3])
		}
		// A matched pattern is committed to: out-of-range components make
		// the cell unparsable instead of falling through to a looser pattern.
		if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, month) {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// dateFromSerial converts an Excel 1900-system day count into a date.
// Fractional days are truncated. Serials that land outside years 1-9999
// are treated as unparsable.
func dateFromSerial(serial float64) (time.Time, bool) {
	days := math.Floor(serial)
	if math.IsNaN(days) || days > 3e6 || days < -1e6 {
		return time.Time{}, false
	}

	t := excelEpoch.AddDate(0, 0, int(days))
	if t.Year() < 1 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}

// ParseAmount normalizes a raw cell into a decimal amount. Currency and
// area unit glyphs are stripped before parsing. Empty cells, placeholder
// tokens, and anything unparsable all degrade to zero.
func ParseAmount(v domain.Value) decimal.Decimal {
	switch v.Kind {
	case domain.ValueEmpty:
		return decimal.Zero
	case domain.ValueNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v.Number)
	}

	s := strings.TrimSpace(v.Text)
	if _, ok := amountEmptyMarkers[s]; ok {
		return decimal.Zero
	}

	s = strings.TrimSpace(amountUnitReplacer.Replace(s))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
