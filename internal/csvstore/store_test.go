package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const optionCSV = `DataDate,UnderlyingSymbol,OptionSymbol,Delta,UnderlyingPrice,Signal,Multiplier,Vega,Last
2023-01-03,XYZ,XYZ_C1,0.5,100,1,100,10,5
2023-01-02,XYZ,XYZ_C1,0.48,99,1,100,10,4.8
2023-01-02,ABC,ABC_P1,-0.3,50,-1,100,4,1.2
`

const tradeCSV = `Date,Time,OptionSymbol,Price,Vega,Quantity
2023-01-03,15:59:00,XYZ_C1,5.1,10,-2
2023-01-03,09:31:00,XYZ_C1,5,10,1
`

func writeTestFiles(t *testing.T, options, trades string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	optionFile := filepath.Join(dir, "options.csv")
	tradeFile := filepath.Join(dir, "trades.csv")
	require.NoError(t, os.WriteFile(optionFile, []byte(options), 0o644))
	require.NoError(t, os.WriteFile(tradeFile, []byte(trades), 0o644))
	return optionFile, tradeFile
}

func TestStoreLoad(t *testing.T) {
	optionFile, tradeFile := writeTestFiles(t, optionCSV, tradeCSV)
	store, err := New(optionFile, tradeFile)
	require.NoError(t, err)

	ctx := context.Background()

	dates, err := store.GetDates(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.True(t, dates[0].Before(dates[1]), "dates must be ascending")

	underlyings, err := store.GetUnderlyings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC", "XYZ"}, underlyings)

	options, err := store.GetOptions(ctx, dates[0])
	require.NoError(t, err)
	require.Len(t, options, 2)

	day3 := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	trades, err := store.GetTrades(ctx, day3)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "09:31:00", trades[0].Time, "trades must be time-ascending")
	assert.Equal(t, "15:59:00", trades[1].Time)
}

func TestStoreGetTradesEmptyDate(t *testing.T) {
	optionFile, tradeFile := writeTestFiles(t, optionCSV, tradeCSV)
	store, err := New(optionFile, tradeFile)
	require.NoError(t, err)

	trades, err := store.GetTrades(context.Background(), time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestStoreGetOptionsUnknownDate(t *testing.T) {
	optionFile, tradeFile := writeTestFiles(t, optionCSV, tradeCSV)
	store, err := New(optionFile, tradeFile)
	require.NoError(t, err)

	_, err = store.GetOptions(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoOptions)
}

func TestStoreLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		options string
		trades  string
	}{
		{
			name:    "missing option column",
			options: "DataDate,UnderlyingSymbol\n2023-01-02,XYZ\n",
			trades:  tradeCSV,
		},
		{
			name:    "bad option decimal",
			options: "DataDate,UnderlyingSymbol,OptionSymbol,Delta,UnderlyingPrice,Signal,Multiplier,Vega,Last\n2023-01-02,XYZ,XYZ_C1,zero,100,1,100,10,5\n",
			trades:  tradeCSV,
		},
		{
			name:    "bad trade date",
			options: optionCSV,
			trades:  "Date,Time,OptionSymbol,Price,Vega,Quantity\nnot-a-date,09:31:00,XYZ_C1,5,10,1\n",
		},
		{
			name:    "bad trade time",
			options: optionCSV,
			trades:  "Date,Time,OptionSymbol,Price,Vega,Quantity\n2023-01-03,25:00:00,XYZ_C1,5,10,1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			optionFile, tradeFile := writeTestFiles(t, tt.options, tt.trades)
			_, err := New(optionFile, tradeFile)
			assert.Error(t, err)
		})
	}
}

func TestStoreSlashDates(t *testing.T) {
	options := "DataDate,UnderlyingSymbol,OptionSymbol,Delta,UnderlyingPrice,Signal,Multiplier,Vega,Last\n1/2/2023,XYZ,XYZ_C1,0.5,100,1,100,10,5\n"
	optionFile, tradeFile := writeTestFiles(t, options, "Date,Time,OptionSymbol,Price,Vega,Quantity\n")

	store, err := New(optionFile, tradeFile)
	require.NoError(t, err)

	dates, err := store.GetDates(context.Background())
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), dates[0])
}
