package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full backtester configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Reporting ReportingConfig `yaml:"reporting"`
	Log       LogConfig       `yaml:"log"`
}

// DataConfig selects the data source: CSV files when both paths are set,
// otherwise Postgres via DSN.
type DataConfig struct {
	OptionFile string `yaml:"option_file"`
	TradeFile  string `yaml:"trade_file"`
	DSN        string `yaml:"dsn"`
}

// PortfolioConfig carries the risk and cost parameters of a run.
type PortfolioConfig struct {
	VegaLimit    float64 `yaml:"vega_limit"`
	InterestRate float64 `yaml:"interest_rate"` // annualized, ACT/360 on cash
	CostRatio    float64 `yaml:"cost_ratio"`    // applied to option execution prices only
}

// ReportingConfig controls metric annualization and where CSV reports land.
type ReportingConfig struct {
	AnnualizationPeriods int    `yaml:"annualization_periods"`
	OutputDir            string `yaml:"output_dir"`
}

// LogConfig controls log format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config file, overlaying values from a .env file and
// the environment where present.
func Load(path string) (*Config, error) {
	// Load .env if present (silence the error if there is no file)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Portfolio.VegaLimit <= 0 {
		return fmt.Errorf("vega_limit must be positive, got %v", c.Portfolio.VegaLimit)
	}
	if c.Data.OptionFile == "" && c.Data.DSN == "" {
		return fmt.Errorf("either data.option_file/trade_file or data.dsn must be set")
	}
	if (c.Data.OptionFile == "") != (c.Data.TradeFile == "") {
		return fmt.Errorf("data.option_file and data.trade_file must be set together")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BACKTESTER_DSN"); v != "" {
		cfg.Data.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Reporting.AnnualizationPeriods <= 0 {
		cfg.Reporting.AnnualizationPeriods = 252
	}
	if cfg.Reporting.OutputDir == "" {
		cfg.Reporting.OutputDir = "."
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
