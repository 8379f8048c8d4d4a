package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// YearMonth identifies one calendar month of the projection horizon.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Key returns the canonical column label for the month, e.g. "2025-03".
func (ym YearMonth) Key() string {
	return fmt.Sprintf("%d-%02d", ym.Year, ym.Month)
}

// MonthEntry is the rent computed for one horizon month, in 万元.
// Amount is zero for months the contract is inactive.
type MonthEntry struct {
	YearMonth
	Amount decimal.Decimal `json:"amount"`
}

// ContractResult is the computed schedule for one successfully processed
// lease row. Built once by the batch processor and never mutated.
type ContractResult struct {
	Client    string          `json:"client"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Area      decimal.Decimal `json:"area"`
	BasePrice decimal.Decimal `json:"base_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Months    []MonthEntry    `json:"months"`
}

// Log levels carried in batch log lines.
const (
	LogLevelInfo    = "INFO"
	LogLevelWarning = "WARNING"
	LogLevelError   = "ERROR"
)

// LogEntry is one timestamped line of the per-batch processing log.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] [%s] %s", e.Time.Format("2006-01-02 15:04:05"), e.Level, e.Message)
}

// BatchStats summarizes one batch run.
type BatchStats struct {
	BatchID        string    `json:"batch_id"`
	TotalRows      int       `json:"total_rows"`
	Succeeded      int       `json:"succeeded"`
	Skipped        int       `json:"skipped"`
	StartedAt      time.Time `json:"started_at"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
}

// Outcome is everything one batch invocation produces: results in input
// order, error strings in encounter order, and the full processing log.
// A fresh Outcome is created per invocation; zero results with a
// non-empty error list distinguishes "nothing computed" from "all
// months legitimately zero".
type Outcome struct {
	Results []ContractResult `json:"results"`
	Errors  []string         `json:"errors"`
	Logs    []LogEntry       `json:"logs"`
	Stats   BatchStats       `json:"stats"`

	// SchemaError holds the missing-columns message when the batch aborted
	// before row processing. Empty for every batch that ran its rows.
	SchemaError string `json:"schema_error,omitempty"`
}

// HasResults reports whether at least one row survived processing.
func (o *Outcome) HasResults() bool {
	return o != nil && len(o.Results) > 0
}

// Fatal reports whether the batch aborted on the schema check.
func (o *Outcome) Fatal() bool {
	return o != nil && o.SchemaError != ""
}
