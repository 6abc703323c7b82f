package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ghost-job-detector/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate detection statistics",
	Long:  "Show risk-tier counts, the average ghost probability, and the companies with the highest ghost rates. Requires a configured database.",
	RunE:  runStats,
}

var (
	statsConfigPath   string
	statsTopCompanies int
	statsDBURL        string
	statsJSON         bool
)

func init() {
	statsCmd.Flags().StringVar(&statsConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	statsCmd.Flags().IntVar(&statsTopCompanies, "top", 10, "Number of top ghost-rate companies to include")
	statsCmd.Flags().StringVar(&statsDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Emit the result as JSON instead of formatted output")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var overlay config.Config
	if cmd.Flags().Changed("db-url") {
		overlay.DatabaseURL = statsDBURL
	}
	cfg, err := resolveConfig(statsConfigPath, overlay)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("stats require a database; set --db-url or DATABASE_URL")
	}

	env, err := newAppEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	stats, err := env.database.GetStats(ctx, statsTopCompanies)
	if err != nil {
		return err
	}

	if statsJSON {
		return printJSON(stats)
	}
	env.printer.PrintStats(stats)
	return nil
}
