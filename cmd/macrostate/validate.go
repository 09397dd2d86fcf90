package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/regimelab/macrostate/internal/config"
	"github.com/regimelab/macrostate/internal/dataset"
	"github.com/regimelab/macrostate/internal/ingest"
	"github.com/regimelab/macrostate/internal/quality"
)

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a raw data file without processing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if input == "" {
				input = cfg.RawDataPath
			}

			table, err := loadRaw(cfg, input)
			if err != nil {
				return err
			}

			fmt.Printf("Validation passed\n")
			fmt.Printf("Rows:    %d\n", table.Len())
			fmt.Printf("Columns: %s\n", strings.Join(table.Columns(), ", "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "path to raw data file (.xlsx or .csv)")
	return cmd
}

// loadRaw loads the raw dataset, checks the required-column contract,
// and logs (but does not fail on) monthly-frequency warnings.
func loadRaw(cfg *config.Settings, inputPath string) (*dataset.Table, error) {
	table, err := ingest.NewLoader(cfg).Load(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", inputPath, err)
	}
	if err := quality.ValidateRequiredColumns(table, cfg); err != nil {
		return nil, err
	}
	for _, warning := range quality.CheckMonthlyFrequency(table.Index()) {
		log.Warn().Str("input", inputPath).Msg(warning)
	}
	return table, nil
}
