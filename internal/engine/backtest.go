package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"

	"optionbacktest/types"
)

var ErrNotEnoughDates = errors.New("need at least two dates of option data")

// backtester replays one agreement-type portfolio over the full date range.
// The first date only seeds the initial snapshot; every later date admits
// that date's trades and settles once, producing one DailyPnl row.
type backtester struct {
	store dataStore
	cfg   *PortfolioConfig

	progress bool
}

func newBacktester(store dataStore, cfg *PortfolioConfig, progress bool) *backtester {
	return &backtester{store: store, cfg: cfg, progress: progress}
}

func (b *backtester) run(ctx context.Context, agree bool) ([]types.DailyPnl, map[string]decimal.Decimal, error) {
	dates, err := b.store.GetDates(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load dates: %w", err)
	}
	if len(dates) < 2 {
		return nil, nil, ErrNotEnoughDates
	}

	underlyings, err := b.store.GetUnderlyings(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load underlyings: %w", err)
	}

	pf, err := b.seedPortfolio(ctx, agree, underlyings, dates[0])
	if err != nil {
		return nil, nil, err
	}

	var bar *progressbar.ProgressBar
	if b.progress {
		bar = initProgressBar(len(dates) - 1)
	}

	pnls := make([]types.DailyPnl, 0, len(dates)-1)
	for _, date := range dates[1:] {
		trades, err := b.store.GetTrades(ctx, date)
		if err != nil {
			return nil, nil, fmt.Errorf("load trades for %s: %w", date.Format("2006-01-02"), err)
		}
		sort.SliceStable(trades, func(i, j int) bool { return trades[i].Time < trades[j].Time })
		for _, trade := range trades {
			pf.handleTrade(trade)
		}

		options, err := b.store.GetOptions(ctx, date)
		if err != nil {
			return nil, nil, fmt.Errorf("load options for %s: %w", date.Format("2006-01-02"), err)
		}
		pf.settle(types.NewMarketSnapshot(date, options), date)

		pnls = append(pnls, types.DailyPnl{
			Date:        date,
			TradePnl:    pf.dailyTradePnl,
			PositionPnl: pf.dailyPositionPnl,
			TotalPnl:    pf.dailyTotalPnl,
			CumTotalPnl: pf.cumTotalPnl,
		})

		if bar != nil {
			bar.Add(1)
		}
	}
	return pnls, pf.contractPnl, nil
}

func (b *backtester) seedPortfolio(ctx context.Context, agree bool, underlyings []string, first time.Time) (*portfolio, error) {
	options, err := b.store.GetOptions(ctx, first)
	if err != nil {
		return nil, fmt.Errorf("load options for %s: %w", first.Format("2006-01-02"), err)
	}
	snapshot := types.NewMarketSnapshot(first, options)
	return newPortfolio(agree, b.cfg, underlyings, snapshot), nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
