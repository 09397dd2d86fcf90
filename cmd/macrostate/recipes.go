package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regimelab/macrostate/internal/config"
	"github.com/regimelab/macrostate/internal/recipe"
	"github.com/regimelab/macrostate/internal/store/duckdb"
)

func newListRecipesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-recipes",
		Short: "List the available preprocessing recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			registry, err := recipe.NewDefaultRegistry(cfg)
			if err != nil {
				return err
			}

			fmt.Println("Available recipes:")
			for _, name := range registry.Names() {
				rec, _ := registry.Resolve(name)
				fmt.Printf("  %-16s %s (%d steps)\n", rec.Name, rec.Description, len(rec.Specs))
			}
			return nil
		},
	}
}

func newRunsCmd() *cobra.Command {
	var database string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded preprocessing runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if database == "" {
				database = cfg.DatabasePath
			}

			client, err := duckdb.NewClient(database)
			if err != nil {
				return err
			}
			defer client.Close()

			runs, err := duckdb.NewFeatureStore(client).ListRuns(context.Background())
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			for _, run := range runs {
				fmt.Printf("%s  %-16s %6d rows  %s\n",
					run.WrittenAt.Format("2006-01-02 15:04"), run.Recipe, run.RowCount, run.RunID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&database, "database", "o", "", "path to DuckDB database")
	return cmd
}
