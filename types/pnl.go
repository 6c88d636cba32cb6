package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyPnl is one settled date's PnL decomposition.
type DailyPnl struct {
	Date        time.Time
	TradePnl    decimal.Decimal
	PositionPnl decimal.Decimal
	TotalPnl    decimal.Decimal
	CumTotalPnl decimal.Decimal
}

// Summary holds the run-level risk statistics over the daily total PnL
// series. SharpeRatio is NaN when the series is empty or constant.
type Summary struct {
	MaxDrawdown             decimal.Decimal
	LongestUnprofitableDays int
	SharpeRatio             float64
}
