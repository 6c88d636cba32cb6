package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"optionbacktest/types"
)

// WriteReports writes the three CSV outputs of one run into dir: the daily
// PnL series, the per-contract total PnL, and the summary metrics. Files are
// suffixed with the run's agreement flag so both runs can share a directory.
func (e *Engine) WriteReports(dir string, result *Result) error {
	suffix := strconv.FormatBool(result.Agree)

	if err := writeCSVFile(filepath.Join(dir, "portfolio_pnls_"+suffix+".csv"), func(w io.Writer) error {
		return writeDailyPnls(w, result.Pnls)
	}); err != nil {
		return err
	}

	if err := writeCSVFile(filepath.Join(dir, "contract_total_pnls_"+suffix+".csv"), func(w io.Writer) error {
		return writeContractPnls(w, result)
	}); err != nil {
		return err
	}

	return writeCSVFile(filepath.Join(dir, "other_metrics_"+suffix+".csv"), func(w io.Writer) error {
		return writeSummary(w, result.Summary)
	})
}

func writeCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeDailyPnls(w io.Writer, pnls []types.DailyPnl) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "dailyTradePnl", "dailyPositionPnl", "dailyTotPnl", "cumTotPnl"}); err != nil {
		return err
	}
	for _, row := range pnls {
		record := []string{
			row.Date.Format("2006-01-02"),
			row.TradePnl.String(),
			row.PositionPnl.String(),
			row.TotalPnl.String(),
			row.CumTotalPnl.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeContractPnls(w io.Writer, result *Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"optionSymbol", "totalPnls"}); err != nil {
		return err
	}

	symbols := make([]string, 0, len(result.ContractPnl))
	for symbol := range result.ContractPnl {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		if err := cw.Write([]string{symbol, result.ContractPnl[symbol].String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSummary(w io.Writer, summary types.Summary) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"metric", "values"},
		{"maxDrawDown", summary.MaxDrawdown.String()},
		{"longestUnprofitDays", strconv.Itoa(summary.LongestUnprofitableDays)},
		{"sharpeRatio", strconv.FormatFloat(summary.SharpeRatio, 'f', -1, 64)},
	}
	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
