package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Option is one option's market attributes as of a single close. A fresh
// value is built for every date; snapshots are never mutated in place, the
// engine diffs consecutive days to attribute PnL.
type Option struct {
	Date       time.Time
	Underlying string
	Symbol     string
	Delta      decimal.Decimal
	Spot       decimal.Decimal
	Signal     decimal.Decimal
	Multiplier decimal.Decimal
	Vega       decimal.Decimal
	Price      decimal.Decimal
}

// MarketSnapshot holds every option quoted on one date, keyed by symbol.
// Absence of a symbol is meaningful: the option is not quoted (expired or
// never listed) on that date.
type MarketSnapshot struct {
	Date    time.Time
	Options map[string]Option
}

func NewMarketSnapshot(date time.Time, options []Option) MarketSnapshot {
	snap := MarketSnapshot{
		Date:    date,
		Options: make(map[string]Option, len(options)),
	}
	for _, opt := range options {
		snap.Options[opt.Symbol] = opt
	}
	return snap
}
