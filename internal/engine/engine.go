package engine

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"optionbacktest/types"
)

// Engine runs the backtest for one or both agreement types over a data
// store and derives the summary metrics for each run.
type Engine struct {
	store           dataStore
	portfolioConfig *PortfolioConfig
	reportingConfig *ReportingConfig
	progress        bool
}

// Result is the full output of one agreement-type run.
type Result struct {
	Agree       bool
	Pnls        []types.DailyPnl
	ContractPnl map[string]decimal.Decimal
	Summary     types.Summary
}

func NewEngine(store dataStore, portfolioConfig *PortfolioConfig, reportingConfig *ReportingConfig) *Engine {
	return &Engine{
		store:           store,
		portfolioConfig: portfolioConfig,
		reportingConfig: reportingConfig,
		progress:        true,
	}
}

// Run replays the full date range for one agreement type.
func (e *Engine) Run(ctx context.Context, agree bool) (*Result, error) {
	bt := newBacktester(e.store, e.portfolioConfig, e.progress)
	pnls, contractPnl, err := bt.run(ctx, agree)
	if err != nil {
		return nil, err
	}

	return &Result{
		Agree:       agree,
		Pnls:        pnls,
		ContractPnl: contractPnl,
		Summary:     e.buildSummary(pnls),
	}, nil
}

func (e *Engine) buildSummary(pnls []types.DailyPnl) types.Summary {
	daily := make([]decimal.Decimal, len(pnls))
	for i, row := range pnls {
		daily[i] = row.TotalPnl
	}

	var summary types.Summary
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		summary.MaxDrawdown, summary.LongestUnprofitableDays = calcDrawdowns(daily)
	}()
	go func() {
		defer wg.Done()
		summary.SharpeRatio = calcSharpeRatio(daily, e.reportingConfig.annualizationPeriods)
	}()
	wg.Wait()
	return summary
}
