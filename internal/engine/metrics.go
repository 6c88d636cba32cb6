package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// calcSharpeRatio annualizes mean daily PnL over its population standard
// deviation: sqrt(periods) * mean / std. The benchmark is zero. Returns NaN
// for an empty or constant series; callers must treat NaN as "undefined",
// not as an error.
func calcSharpeRatio(pnls []decimal.Decimal, periods int) float64 {
	if len(pnls) == 0 {
		return math.NaN()
	}

	var sum float64
	values := make([]float64, len(pnls))
	for i, pnl := range pnls {
		values[i] = pnl.InexactFloat64()
		sum += values[i]
	}
	mean := sum / float64(len(values))

	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	std := math.Sqrt(varianceSum / float64(len(values)))
	if std == 0 {
		return math.NaN()
	}

	return math.Sqrt(float64(periods)) * mean / std
}

// calcDrawdowns walks the cumulative PnL curve against its running maximum.
// It returns the max peak-to-trough drawdown (most negative distance below
// the peak, always <= 0) and the longest run of consecutive dates spent
// strictly below a previous peak.
func calcDrawdowns(pnls []decimal.Decimal) (decimal.Decimal, int) {
	maxDrawdown := decimal.Zero
	longestStreak := 0

	cum := decimal.Zero
	peak := decimal.Zero
	streak := 0
	for i, pnl := range pnls {
		cum = cum.Add(pnl)
		if i == 0 || cum.GreaterThan(peak) {
			peak = cum
		}

		drawdown := cum.Sub(peak)
		if drawdown.LessThan(maxDrawdown) {
			maxDrawdown = drawdown
		}

		if drawdown.IsNegative() {
			streak++
			if streak > longestStreak {
				longestStreak = streak
			}
		} else {
			streak = 0
		}
	}

	return maxDrawdown, longestStreak
}
