package engine

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// PrintSummary writes the run's summary metrics as a console table.
func (e *Engine) PrintSummary(w io.Writer, result *Result) {
	fmt.Fprintf(w, "===== Backtest Report (agree=%t) =====\n", result.Agree)

	netPnl := "0"
	if n := len(result.Pnls); n > 0 {
		netPnl = result.Pnls[n-1].CumTotalPnl.StringFixed(2)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	table.Append("Trading days", strconv.Itoa(len(result.Pnls)))
	table.Append("Traded contracts", strconv.Itoa(len(result.ContractPnl)))
	table.Append("Net PnL", netPnl)
	table.Append("Max drawdown", result.Summary.MaxDrawdown.StringFixed(2))
	table.Append("Longest unprofitable days", strconv.Itoa(result.Summary.LongestUnprofitableDays))
	table.Append("Sharpe ratio", formatSharpe(result.Summary.SharpeRatio))
	table.Render()
}

func formatSharpe(sharpe float64) string {
	if math.IsNaN(sharpe) {
		return "undefined"
	}
	return strconv.FormatFloat(sharpe, 'f', 4, 64)
}
