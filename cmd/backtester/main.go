package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"optionbacktest/config"
	"optionbacktest/internal/csvstore"
	"optionbacktest/internal/engine"
	"optionbacktest/internal/repository"
	"optionbacktest/types"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("backtester starting",
		"config", *configPath,
		"vega_limit", cfg.Portfolio.VegaLimit,
		"interest_rate", cfg.Portfolio.InterestRate,
		"cost_ratio", cfg.Portfolio.CostRatio,
	)

	store, cleanup, err := newStore(cfg.Data)
	if err != nil {
		slog.Error("failed to open data store", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	eng := engine.NewEngine(
		store,
		engine.NewPortfolioConfig(
			decimal.NewFromFloat(cfg.Portfolio.VegaLimit),
			decimal.NewFromFloat(cfg.Portfolio.InterestRate),
			decimal.NewFromFloat(cfg.Portfolio.CostRatio),
		),
		engine.NewReportingConfig(cfg.Reporting.AnnualizationPeriods),
	)

	ctx := context.Background()
	// One independent portfolio per agreement type; they partition the trade
	// universe and never interact.
	for _, agree := range []bool{true, false} {
		slog.Info("running backtest", "agree", agree)
		result, err := eng.Run(ctx, agree)
		if err != nil {
			slog.Error("backtest failed", "agree", agree, "err", err)
			os.Exit(1)
		}
		eng.PrintSummary(os.Stdout, result)
		if err := eng.WriteReports(cfg.Reporting.OutputDir, result); err != nil {
			slog.Error("failed to write reports", "agree", agree, "err", err)
			os.Exit(1)
		}
	}
}

// dataStore is what the engine needs from either store implementation.
type dataStore interface {
	GetDates(ctx context.Context) ([]time.Time, error)
	GetUnderlyings(ctx context.Context) ([]string, error)
	GetOptions(ctx context.Context, date time.Time) ([]types.Option, error)
	GetTrades(ctx context.Context, date time.Time) ([]types.Trade, error)
}

func newStore(cfg config.DataConfig) (dataStore, func(), error) {
	if cfg.OptionFile != "" {
		store, err := csvstore.New(cfg.OptionFile, cfg.TradeFile)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
	db, err := repository.NewDatabase(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return &db, db.Close, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
