package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Raw row shapes for the option_data and trade_data tables.
type optionRow struct {
	DataDate         time.Time
	UnderlyingSymbol string
	OptionSymbol     string
	Delta            decimal.Decimal
	UnderlyingPrice  decimal.Decimal
	Signal           decimal.Decimal
	Multiplier       decimal.Decimal
	Vega             decimal.Decimal
	Last             decimal.Decimal
}

type tradeRow struct {
	TradeDate    time.Time
	TradeTime    string
	OptionSymbol string
	Price        decimal.Decimal
	Vega         decimal.Decimal
	Quantity     decimal.Decimal
}

const datesSQL = `
SELECT DISTINCT data_date
FROM option_data
ORDER BY data_date`

const underlyingsSQL = `
SELECT DISTINCT underlying_symbol
FROM option_data
ORDER BY underlying_symbol`

const optionsByDateSQL = `
SELECT data_date, underlying_symbol, option_symbol, delta, underlying_price,
       signal, multiplier, vega, last
FROM option_data
WHERE data_date = $1`

const tradesByDateSQL = `
SELECT trade_date, to_char(trade_time, 'HH24:MI:SS'), option_symbol, price, vega, quantity
FROM trade_data
WHERE trade_date = $1
ORDER BY trade_time`

type queries struct {
	pool *pgxpool.Pool
}

func (q *queries) Dates(ctx context.Context) ([]time.Time, error) {
	rows, err := q.pool.Query(ctx, datesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

func (q *queries) Underlyings(ctx context.Context) ([]string, error) {
	rows, err := q.pool.Query(ctx, underlyingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var underlyings []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, err
		}
		underlyings = append(underlyings, ticker)
	}
	return underlyings, rows.Err()
}

func (q *queries) OptionsByDate(ctx context.Context, date time.Time) ([]optionRow, error) {
	rows, err := q.pool.Query(ctx, optionsByDateSQL, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []optionRow
	for rows.Next() {
		var r optionRow
		err := rows.Scan(&r.DataDate, &r.UnderlyingSymbol, &r.OptionSymbol, &r.Delta,
			&r.UnderlyingPrice, &r.Signal, &r.Multiplier, &r.Vega, &r.Last)
		if err != nil {
			return nil, err
		}
		options = append(options, r)
	}
	return options, rows.Err()
}

func (q *queries) TradesByDate(ctx context.Context, date time.Time) ([]tradeRow, error) {
	rows, err := q.pool.Query(ctx, tradesByDateSQL, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []tradeRow
	for rows.Next() {
		var r tradeRow
		err := rows.Scan(&r.TradeDate, &r.TradeTime, &r.OptionSymbol, &r.Price, &r.Vega, &r.Quantity)
		if err != nil {
			return nil, err
		}
		trades = append(trades, r)
	}
	return trades, rows.Err()
}
