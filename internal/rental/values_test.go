package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasecli/pkg/contracts/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateNotations(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Value
		want time.Time
	}{
		{"chinese full", domain.TextValue("2025年3月5日"), date(2025, time.March, 5)},
		{"chinese full no day suffix", domain.TextValue("2025年3月5"), date(2025, time.March, 5)},
		{"chinese year month", domain.TextValue("2025年3月"), date(2025, time.March, 1)},
		{"chinese year only", domain.TextValue("2025年"), date(2025, time.January, 1)},
		{"chinese padded", domain.TextValue("2025年03月05日"), date(2025, time.March, 5)},
		{"slash", domain.TextValue("2025/3/5"), date(2025, time.March, 5)},
		{"slash padded", domain.TextValue("2025/03/05"), date(2025, time.March, 5)},
		{"dot", domain.TextValue("2025.03.05"), date(2025, time.March, 5)},
		{"dash", domain.TextValue("2025-3-5"), date(2025, time.March, 5)},
		{"dash padded", domain.TextValue("2025-03-05"), date(2025, time.March, 5)},
		{"slash year month", domain.TextValue("2025/3"), date(2025, time.March, 1)},
		{"dot year month", domain.TextValue("2025.3"), date(2025, time.March, 1)},
		{"dash year month", domain.TextValue("2025-3"), date(2025, time.March, 1)},
		{"compact", domain.TextValue("20250305"), date(2025, time.March, 5)},
		{"datetime discards time", domain.TextValue("2025-03-05 14:30:00"), date(2025, time.March, 5)},
		{"surrounding whitespace", domain.TextValue("  2025-03-05  "), date(2025, time.March, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			require.True(t, ok, "expected %v to parse", tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateSerial(t *testing.T) {
	tests := []struct {
		name   string
		serial float64
		want   time.Time
	}{
		{"known serial", 45721, date(2025, time.March, 5)},
		{"fractional day truncated", 45721.9, date(2025, time.March, 5)},
		{"day zero is epoch", 0, date(1899, time.December, 30)},
		{"day one", 1, date(1899, time.December, 31)},
		{"negative serial", -1, date(1899, time.December, 29)},
		{"year boundary", 45658, date(2025, time.January, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(domain.NumberValue(tt.serial))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateAbsent(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Value
	}{
		{"empty value", domain.EmptyValue()},
		{"empty string", domain.TextValue("")},
		{"whitespace", domain.TextValue("   ")},
		{"dash", domain.TextValue("-")},
		{"slash", domain.TextValue("/")},
		{"double slash", domain.TextValue("//")},
		{"nan token", domain.TextValue("nan")},
		{"none token", domain.TextValue("None")},
		{"em dash", domain.TextValue("—")},
		{"double em dash", domain.TextValue("——")},
		{"garbage", domain.TextValue("not a date")},
		{"month out of range", domain.TextValue("2025年13月5日")},
		{"day out of range", domain.TextValue("2025年2月30日")},
		{"numeric month out of range", domain.TextValue("2025/13/05")},
		{"serial out of range", domain.NumberValue(9e9)},
		{"partial digits", domain.TextValue("202503")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseDate(tt.in)
			assert.False(t, ok, "expected %v to be absent", tt.in)
		})
	}
}

func TestParseDateLeapDay(t *testing.T) {
	got, ok := ParseDate(domain.TextValue("2024年2月29日"))
	require.True(t, ok)
	assert.Equal(t, date(2024, time.February, 29), got)

	_, ok = ParseDate(domain.TextValue("2025年2月29日"))
	assert.False(t, ok, "2025 is not a leap year")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Value
		want string
	}{
		{"plain number text", domain.TextValue("1500"), "1500"},
		{"currency suffix", domain.TextValue("1500元"), "1500"},
		{"area suffix", domain.TextValue("120.5㎡"), "120.5"},
		{"suffix with whitespace", domain.TextValue(" 80元 "), "80"},
		{"numeric cell", domain.NumberValue(99.5), "99.5"},
		{"negative", domain.TextValue("-5"), "-5"},
		{"empty", domain.EmptyValue(), "0"},
		{"empty string", domain.TextValue(""), "0"},
		{"dash", domain.TextValue("-"), "0"},
		{"slash", domain.TextValue("/"), "0"},
		{"garbage", domain.TextValue("abc"), "0"},
		{"mixed garbage", domain.TextValue("12ab"), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.in)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmountHostileInputIsZero(t *testing.T) {
	// Stripping can leave nothing behind; the parser must stay total.
	inputs := []domain.Value{
		domain.TextValue("元"),
		domain.TextValue("㎡㎡"),
		domain.TextValue("1.2.3"),
		{Kind: domain.ValueNumber, Number: 0},
	}
	for _, in := range inputs {
		assert.True(t, ParseAmount(in).IsZero(), "expected zero for %v", in)
	}
}
