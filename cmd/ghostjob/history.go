package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ghost-job-detector/internal/config"
	"github.com/jonathan/ghost-job-detector/internal/db"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored analyses",
	Long:  "List previously stored analyses, newest first, optionally filtered by company or risk level. Requires a configured database.",
	RunE:  runHistory,
}

var (
	historyConfigPath string
	historyCompany    string
	historyRiskLevel  string
	historyLimit      int
	historyDBURL      string
	historyJSON       bool
)

func init() {
	historyCmd.Flags().StringVar(&historyConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	historyCmd.Flags().StringVarP(&historyCompany, "company", "c", "", "Filter by company name")
	historyCmd.Flags().StringVar(&historyRiskLevel, "risk-level", "", "Filter by risk level (low, medium, high)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of analyses to return")
	historyCmd.Flags().StringVar(&historyDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Emit the result as JSON instead of formatted output")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var overlay config.Config
	if cmd.Flags().Changed("db-url") {
		overlay.DatabaseURL = historyDBURL
	}
	cfg, err := resolveConfig(historyConfigPath, overlay)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("history requires a database; set --db-url or DATABASE_URL")
	}

	filter := db.HistoryFilter{
		Company: historyCompany,
		Limit:   historyLimit,
	}
	if historyRiskLevel != "" {
		switch types.RiskLevel(historyRiskLevel) {
		case types.RiskLow, types.RiskMedium, types.RiskHigh:
			filter.RiskLevel = types.RiskLevel(historyRiskLevel)
		default:
			return fmt.Errorf("--risk-level must be low, medium, or high, got %q", historyRiskLevel)
		}
	}

	env, err := newAppEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	analyses, err := env.database.History(ctx, filter)
	if err != nil {
		return err
	}

	if historyJSON {
		return printJSON(analyses)
	}
	env.printer.PrintHistory(analyses)
	return nil
}
