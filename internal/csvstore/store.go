// Package csvstore loads option and trade data from CSV files into memory
// and serves it through the same interface as the Postgres repository.
// Parse failures are fatal at construction; a backtest never starts on
// malformed input.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"optionbacktest/types"
)

var (
	ErrNoOptions = errors.New("no option rows found in file")
	ErrNoDates   = errors.New("no option dates found in file")
)

var optionColumns = []string{
	"DataDate", "UnderlyingSymbol", "OptionSymbol", "Delta", "UnderlyingPrice",
	"Signal", "Multiplier", "Vega", "Last",
}

var tradeColumns = []string{"Date", "Time", "OptionSymbol", "Price", "Vega", "Quantity"}

var dateLayouts = []string{"2006-01-02", "1/2/2006"}

// Store holds a full backtest data set in memory, keyed by date.
type Store struct {
	dates       []time.Time
	underlyings []string
	options     map[time.Time][]types.Option
	trades      map[time.Time][]types.Trade
}

// New reads both files fully and indexes them by date.
func New(optionFile, tradeFile string) (*Store, error) {
	s := &Store{
		options: make(map[time.Time][]types.Option),
		trades:  make(map[time.Time][]types.Trade),
	}
	if err := s.loadOptions(optionFile); err != nil {
		return nil, fmt.Errorf("load option file %q: %w", optionFile, err)
	}
	if err := s.loadTrades(tradeFile); err != nil {
		return nil, fmt.Errorf("load trade file %q: %w", tradeFile, err)
	}
	return s, nil
}

func (s *Store) GetDates(_ context.Context) ([]time.Time, error) {
	if len(s.dates) == 0 {
		return nil, ErrNoDates
	}
	return s.dates, nil
}

func (s *Store) GetUnderlyings(_ context.Context) ([]string, error) {
	return s.underlyings, nil
}

func (s *Store) GetOptions(_ context.Context, date time.Time) ([]types.Option, error) {
	options, ok := s.options[date]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoOptions, date.Format("2006-01-02"))
	}
	return options, nil
}

func (s *Store) GetTrades(_ context.Context, date time.Time) ([]types.Trade, error) {
	return s.trades[date], nil
}

func (s *Store) loadOptions(path string) error {
	records, index, err := readCSV(path, optionColumns)
	if err != nil {
		return err
	}

	underlyings := make(map[string]bool)
	for i, record := range records {
		date, err := parseDate(record[index["DataDate"]])
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		option := types.Option{
			Date:       date,
			Underlying: record[index["UnderlyingSymbol"]],
			Symbol:     record[index["OptionSymbol"]],
		}
		fields := map[string]*decimal.Decimal{
			"Delta":           &option.Delta,
			"UnderlyingPrice": &option.Spot,
			"Signal":          &option.Signal,
			"Multiplier":      &option.Multiplier,
			"Vega":            &option.Vega,
			"Last":            &option.Price,
		}
		for column, dst := range fields {
			*dst, err = decimal.NewFromString(record[index[column]])
			if err != nil {
				return fmt.Errorf("row %d: column %s: %w", i+2, column, err)
			}
		}
		s.options[date] = append(s.options[date], option)
		underlyings[option.Underlying] = true
	}

	for date := range s.options {
		s.dates = append(s.dates, date)
	}
	sort.Slice(s.dates, func(i, j int) bool { return s.dates[i].Before(s.dates[j]) })
	for u := range underlyings {
		s.underlyings = append(s.underlyings, u)
	}
	sort.Strings(s.underlyings)
	return nil
}

func (s *Store) loadTrades(path string) error {
	records, index, err := readCSV(path, tradeColumns)
	if err != nil {
		return err
	}

	for i, record := range records {
		date, err := parseDate(record[index["Date"]])
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		tod := record[index["Time"]]
		if _, err := time.Parse("15:04:05", tod); err != nil {
			return fmt.Errorf("row %d: column Time: %w", i+2, err)
		}
		trade := types.Trade{
			Date:   date,
			Time:   tod,
			Symbol: record[index["OptionSymbol"]],
		}
		fields := map[string]*decimal.Decimal{
			"Price":    &trade.Price,
			"Vega":     &trade.Vega,
			"Quantity": &trade.Quantity,
		}
		for column, dst := range fields {
			*dst, err = decimal.NewFromString(record[index[column]])
			if err != nil {
				return fmt.Errorf("row %d: column %s: %w", i+2, column, err)
			}
		}
		s.trades[date] = append(s.trades[date], trade)
	}

	for date := range s.trades {
		trades := s.trades[date]
		sort.SliceStable(trades, func(i, j int) bool { return trades[i].Time < trades[j].Time })
	}
	return nil
}

// readCSV reads all data rows and maps the required column names to their
// positions in the header row.
func readCSV(path string, columns []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("empty file")
	}

	index := make(map[string]int, len(columns))
	for i, name := range records[0] {
		index[name] = i
	}
	for _, name := range columns {
		if _, ok := index[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}
	return records[1:], index, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}
