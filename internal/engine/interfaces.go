package engine

import (
	"context"
	"time"

	"optionbacktest/types"
)

// dataStore is the seam to the option and trade feeds. Implementations must
// return dates in ascending order and a date's trades in ascending
// time-of-day order; the driver re-sorts trades defensively but relies on
// the date ordering.
type dataStore interface {
	GetDates(ctx context.Context) ([]time.Time, error)
	GetUnderlyings(ctx context.Context) ([]string, error)
	GetOptions(ctx context.Context, date time.Time) ([]types.Option, error)
	GetTrades(ctx context.Context, date time.Time) ([]types.Trade, error)
}
