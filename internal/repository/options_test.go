package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type mockOptionsRepository struct {
	dates       []time.Time
	underlyings []string
	rows        []optionRow
	sqlError    error
}

func (m mockOptionsRepository) Dates(_ context.Context) ([]time.Time, error) {
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	return m.dates, nil
}

func (m mockOptionsRepository) Underlyings(_ context.Context) ([]string, error) {
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	return m.underlyings, nil
}

func (m mockOptionsRepository) OptionsByDate(_ context.Context, _ time.Time) ([]optionRow, error) {
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	return m.rows, nil
}

func TestDatabase_GetDates(t *testing.T) {
	someDate := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	queryErr := errors.New("query failed")

	tests := []struct {
		name    string
		dates   []time.Time
		sqlErr  error
		wantLen int
		wantErr error
	}{
		{"should throw ErrNoDates on empty table", nil, nil, 0, ErrNoDates},
		{"should propagate query error", nil, queryErr, 0, queryErr},
		{"should return dates", []time.Time{someDate}, nil, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{
				options: mockOptionsRepository{dates: tt.dates, sqlError: tt.sqlErr},
			}
			got, err := db.GetDates(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetDates() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("GetDates() len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestDatabase_GetOptions(t *testing.T) {
	someDate := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	row := optionRow{
		DataDate:         someDate,
		UnderlyingSymbol: "XYZ",
		OptionSymbol:     "XYZ_C1",
		Delta:            decimal.NewFromFloat(0.5),
		UnderlyingPrice:  decimal.NewFromInt(100),
		Signal:           decimal.NewFromInt(1),
		Multiplier:       decimal.NewFromInt(100),
		Vega:             decimal.NewFromInt(10),
		Last:             decimal.NewFromInt(5),
	}

	t.Run("should throw ErrNoOptions when date has no rows", func(t *testing.T) {
		db := &Database{options: mockOptionsRepository{}}
		_, err := db.GetOptions(context.Background(), someDate)
		if !errors.Is(err, ErrNoOptions) {
			t.Fatalf("GetOptions() error = %v, want ErrNoOptions", err)
		}
	})

	t.Run("should convert rows", func(t *testing.T) {
		db := &Database{options: mockOptionsRepository{rows: []optionRow{row}}}
		got, err := db.GetOptions(context.Background(), someDate)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Fatalf("GetOptions() len = %d, want 1", len(got))
		}
		opt := got[0]
		if opt.Symbol != "XYZ_C1" || opt.Underlying != "XYZ" {
			t.Errorf("GetOptions() symbol = %s/%s, want XYZ_C1/XYZ", opt.Symbol, opt.Underlying)
		}
		if !opt.Spot.Equal(row.UnderlyingPrice) || !opt.Price.Equal(row.Last) {
			t.Errorf("GetOptions() spot/price = %s/%s, want %s/%s",
				opt.Spot, opt.Price, row.UnderlyingPrice, row.Last)
		}
	})
}
