package repository

import (
	"context"
	"time"

	"optionbacktest/types"
)

// GetTrades retrieves the trades executed on the given date, in time-of-day
// ascending order. A date with no trades returns an empty slice, not an
// error.
func (db *Database) GetTrades(ctx context.Context, date time.Time) ([]types.Trade, error) {
	rows, err := db.trades.TradesByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return convertTrades(rows), nil
}

func convertTrades(rows []tradeRow) []types.Trade {
	var trades []types.Trade
	for _, row := range rows {
		trades = append(trades, types.Trade{
			Date:     row.TradeDate,
			Time:     row.TradeTime,
			Symbol:   row.OptionSymbol,
			Price:    row.Price,
			Vega:     row.Vega,
			Quantity: row.Quantity,
		})
	}
	return trades
}
