package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/regimelab/macrostate/internal/config"
	"github.com/regimelab/macrostate/internal/ingest"
	macroio "github.com/regimelab/macrostate/internal/io"
	"github.com/regimelab/macrostate/internal/pipeline"
	"github.com/regimelab/macrostate/internal/quality"
	"github.com/regimelab/macrostate/internal/recipe"
	"github.com/regimelab/macrostate/internal/store/duckdb"
)

type preprocessFlags struct {
	input    string
	recipe   string
	asof     string
	database string
}

func addPreprocessFlags(fs *pflag.FlagSet, f *preprocessFlags) {
	fs.StringVarP(&f.input, "input", "i", "", "path to raw data file (.xlsx or .csv)")
	fs.StringVarP(&f.recipe, "recipe", "r", recipe.ZPlusMomentum, "preprocessing recipe")
	fs.StringVar(&f.asof, "asof", "", "truncate input after this date (YYYY-MM-DD)")
	fs.StringVarP(&f.database, "database", "o", "", "path to output DuckDB database")
}

func newPreprocessCmd() *cobra.Command {
	var flags preprocessFlags
	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Run a preprocessing recipe and persist the feature table",
		Long: `Load the raw dataset, validate and clean it, execute the selected
recipe, and persist the feature table to DuckDB together with a data
quality report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(cmd.Context(), flags)
		},
	}
	addPreprocessFlags(cmd.Flags(), &flags)
	return cmd
}

func runPreprocess(ctx context.Context, flags preprocessFlags) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flags.input == "" {
		flags.input = cfg.RawDataPath
	}
	if flags.database == "" {
		flags.database = cfg.DatabasePath
	}

	var opts pipeline.Options
	if flags.asof != "" {
		cutoff, err := time.Parse("2006-01-02", flags.asof)
		if err != nil {
			return fmt.Errorf("invalid --asof date %q: %w", flags.asof, err)
		}
		opts.AsOf = &cutoff
	}

	log.Info().
		Str("recipe", flags.recipe).
		Str("input", flags.input).
		Str("database", flags.database).
		Msg("Starting preprocessing run")

	table, err := loadRaw(cfg, flags.input)
	if err != nil {
		return err
	}

	cleaned := ingest.Clean(table, cfg)
	log.Info().
		Int("raw_rows", table.Len()).
		Int("clean_rows", cleaned.Len()).
		Msg("Cleaning complete")

	registry, err := recipe.NewDefaultRegistry(cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(registry, flags.recipe, cleaned, opts)
	if err != nil {
		return err
	}

	report := quality.BuildReport(result.Table, flags.recipe)

	if err := persistFeatures(ctx, flags.database, flags.recipe, result, report.RunID); err != nil {
		return err
	}

	reportPath := filepath.Join(cfg.ReportsDir, "data_quality_"+flags.recipe+".json")
	if err := macroio.WriteJSONAtomic(reportPath, report); err != nil {
		return fmt.Errorf("failed to write quality report: %w", err)
	}

	printSummary(result, report)
	return nil
}

func persistFeatures(ctx context.Context, dbPath, recipeName string, result *pipeline.Result, runID string) error {
	client, err := duckdb.NewClient(dbPath)
	if err != nil {
		return err
	}
	defer client.Close()

	store := duckdb.NewFeatureStore(client)
	if err := store.WriteFeatures(ctx, recipeName, result.Table, runID); err != nil {
		return fmt.Errorf("failed to persist features: %w", err)
	}

	log.Info().
		Str("recipe", recipeName).
		Str("run_id", runID).
		Int("rows", result.Table.Len()).
		Msg("Feature table persisted")
	return nil
}

func printSummary(result *pipeline.Result, report *quality.Report) {
	fmt.Printf("Recipe:     %s\n", report.Recipe)
	fmt.Printf("Run ID:     %s\n", report.RunID)
	fmt.Printf("Rows:       %d (from %d input rows)\n", report.Rows, result.InputRows)
	fmt.Printf("Features:   %d\n", len(report.Columns))
	fmt.Printf("Date range: %s -> %s\n", report.DateRange.Start, report.DateRange.End)

	if len(result.WarmupMissing) > 0 {
		cols := make([]string, 0, len(result.WarmupMissing))
		for name := range result.WarmupMissing {
			cols = append(cols, name)
		}
		sort.Strings(cols)
		fmt.Printf("Warm-up:    missing values in %s (dropped)\n", strings.Join(cols, ", "))
	}

	fmt.Printf("Columns:    %s\n", strings.Join(report.Columns, ", "))
}
