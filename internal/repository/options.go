package repository

import (
	"context"
	"time"

	"optionbacktest/types"
)

// GetDates returns every distinct option data date in ascending order.
func (db *Database) GetDates(ctx context.Context) ([]time.Time, error) {
	dates, err := db.options.Dates(ctx)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	return dates, nil
}

// GetUnderlyings returns every distinct underlying ticker in the option data.
func (db *Database) GetUnderlyings(ctx context.Context) ([]string, error) {
	return db.options.Underlyings(ctx)
}

// GetOptions retrieves all option rows quoted on the given date.
func (db *Database) GetOptions(ctx context.Context, date time.Time) ([]types.Option, error) {
	rows, err := db.options.OptionsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoOptions
	}
	return convertOptions(rows), nil
}

func convertOptions(rows []optionRow) []types.Option {
	var options []types.Option
	for _, row := range rows {
		options = append(options, types.Option{
			Date:       row.DataDate,
			Underlying: row.UnderlyingSymbol,
			Symbol:     row.OptionSymbol,
			Delta:      row.Delta,
			Spot:       row.UnderlyingPrice,
			Signal:     row.Signal,
			Multiplier: row.Multiplier,
			Vega:       row.Vega,
			Price:      row.Last,
		})
	}
	return options
}
