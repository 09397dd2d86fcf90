// Package config holds the preprocessing settings: data paths, the raw
// column contract, and the parameter sets the built-in recipes are
// composed with. Settings come from an optional YAML file layered over
// the defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the full preprocessing configuration.
type Settings struct {
	// Paths.
	RawDataPath  string `yaml:"raw_data_path"`
	DatabasePath string `yaml:"database_path"`
	ReportsDir   string `yaml:"reports_dir"`

	// Raw data contract.
	DateColumn      string            `yaml:"date_column"`
	RequiredColumns []string          `yaml:"required_columns"`
	ColumnRename    map[string]string `yaml:"column_rename"`

	// Cleaning.
	FFillMaxGap int `yaml:"ffill_max_gap"`

	// Rolling z-score parameters.
	ZScoreWindow     int      `yaml:"zscore_window"`
	ZScoreMinPeriods int      `yaml:"zscore_min_periods"`
	ZScoreColumns    []string `yaml:"zscore_columns"`

	// Momentum parameters.
	DiffColumns  []string `yaml:"diff_columns"`
	DiffHorizons []int    `yaml:"diff_horizons"`

	// Indicators where higher readings mean worse conditions.
	SignFlipColumns []string `yaml:"sign_flip_columns"`

	// Yield curve and equity inputs.
	LongRateColumn     string `yaml:"long_rate_column"`
	ShortRateColumn    string `yaml:"short_rate_column"`
	EquityReturnColumn string `yaml:"equity_return_column"`
}

// Default returns the built-in settings for the monthly macro dataset.
func Default() *Settings {
	return &Settings{
		RawDataPath:  "data/raw/raw_dataset.xlsx",
		DatabasePath: "data/features/features.duckdb",
		ReportsDir:   "reports",

		DateColumn: "Date",
		RequiredColumns: []string{
			"Date",
			"US10Y",
			"US2Y",
			"HY_OAS",
			"IG_OAS",
			"Inflation (expectation)",
			"PMI Gap",
			"Unemployment",
			"Volatilité",
			"S&P500",
			"Credit Spread",
			"Confidence",
		},
		ColumnRename: map[string]string{
			"Inflation (expectation)": "INFLATION_EXP",
			"PMI Gap":                 "PMI_GAP",
			"Volatilité":              "VIX",
			"S&P500":                  "SPX_RET_1M",
			"Credit Spread":           "CREDIT_SPREAD",
		},

		FFillMaxGap: 2,

		ZScoreWindow:     60,
		ZScoreMinPeriods: 24,
		ZScoreColumns: []string{
			"US10Y",
			"US2Y",
			"HY_OAS",
			"IG_OAS",
			"INFLATION_EXP",
			"PMI_GAP",
			"Unemployment",
			"VIX",
			"CREDIT_SPREAD",
			"Confidence",
			"YC_SLOPE",
		},

		DiffColumns: []string{
			"US10Y",
			"HY_OAS",
			"INFLATION_EXP",
			"PMI_GAP",
			"Unemployment",
			"VIX",
			"Confidence",
		},
		DiffHorizons: []int{1, 6},

		SignFlipColumns: []string{"Unemployment_Z"},

		LongRateColumn:     "US10Y",
		ShortRateColumn:    "US2Y",
		EquityReturnColumn: "SPX_RET_1M",
	}
}

// Load reads settings from a YAML file layered over the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (*Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return s, nil
}

// Validate checks the settings for internal consistency.
func (s *Settings) Validate() error {
	if s.DateColumn == "" {
		return fmt.Errorf("date_column must be set")
	}
	if len(s.RequiredColumns) == 0 {
		return fmt.Errorf("required_columns must not be empty")
	}
	if s.ZScoreWindow < 2 {
		return fmt.Errorf("zscore_window must be >= 2, got %d", s.ZScoreWindow)
	}
	if s.ZScoreMinPeriods < 0 || s.ZScoreMinPeriods > s.ZScoreWindow {
		return fmt.Errorf("zscore_min_periods %d outside [0, %d]", s.ZScoreMinPeriods, s.ZScoreWindow)
	}
	if s.FFillMaxGap < 0 {
		return fmt.Errorf("ffill_max_gap must be >= 0, got %d", s.FFillMaxGap)
	}
	for _, h := range s.DiffHorizons {
		if h < 1 {
			return fmt.Errorf("diff horizon must be >= 1, got %d", h)
		}
	}
	return nil
}
