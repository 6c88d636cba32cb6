package engine

import (
	"github.com/shopspring/decimal"
)

// PortfolioConfig carries the risk and cost parameters shared by both
// agreement-type portfolios in a run.
type PortfolioConfig struct {
	vegaLimit    decimal.Decimal
	interestRate decimal.Decimal
	costRatio    decimal.Decimal
}

// NewPortfolioConfig builds a portfolio config. vegaLimit bounds both the
// aggregate and the per-underlying vega exposure. interestRate is the
// annualized overnight rate accrued ACT/360 on cash. costRatio is applied
// multiplicatively to option execution prices only; stock rehedges are free.
func NewPortfolioConfig(vegaLimit, interestRate, costRatio decimal.Decimal) *PortfolioConfig {
	return &PortfolioConfig{
		vegaLimit:    vegaLimit,
		interestRate: interestRate,
		costRatio:    costRatio,
	}
}

type ReportingConfig struct {
	annualizationPeriods int
}

func NewReportingConfig(annualizationPeriods int) *ReportingConfig {
	if annualizationPeriods <= 0 {
		annualizationPeriods = 252
	}
	return &ReportingConfig{annualizationPeriods: annualizationPeriods}
}
