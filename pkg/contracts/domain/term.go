package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceIncrease is one scheduled unit-price change. A zero Date or a
// non-positive Price means the event never takes effect.
type PriceIncrease struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// ContractTerm holds the typed fields of one lease contract after all
// defensive parsing has happened. Start after End is allowed and simply
// yields no active months.
type ContractTerm struct {
	Client    string          `json:"client"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Area      decimal.Decimal `json:"area"`
	BasePrice decimal.Decimal `json:"base_price"`
	Increases []PriceIncrease `json:"increases,omitempty"`
}
