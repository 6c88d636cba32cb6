package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one executed order from the trade feed. Quantity is signed:
// positive buys, negative sells. Time is the intraday execution time in
// HH:MM:SS form; within a date trades sort lexicographically on it.
type Trade struct {
	Date     time.Time
	Time     string
	Symbol   string
	Price    decimal.Decimal
	Vega     decimal.Decimal
	Quantity decimal.Decimal
}
