package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/ghost-job-detector/internal/config"
	"github.com/jonathan/ghost-job-detector/internal/db"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one job posting for ghost-job risk",
	Long: `Score a job posting for the likelihood that it is a ghost job. The posting
is described with flags; the description can come from a file.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath string
	analyzeTitle      string
	analyzeCompany    string
	analyzeDesc       string
	analyzeDescFile   string
	analyzeLocation   string
	analyzeRemote     bool
	analyzePostedAt   string
	analyzeURL        string
	analyzeAPIKey     string
	analyzeDBURL      string
	analyzeVerbose    bool
	analyzeJSON       bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	analyzeCmd.Flags().StringVarP(&analyzeTitle, "title", "t", "", "Posting title")
	analyzeCmd.Flags().StringVarP(&analyzeCompany, "company", "c", "", "Company name")
	analyzeCmd.Flags().StringVarP(&analyzeDesc, "description", "d", "", "Posting description text (mutually exclusive with --description-file)")
	analyzeCmd.Flags().StringVar(&analyzeDescFile, "description-file", "", "Path to a file containing the description (mutually exclusive with --description)")
	analyzeCmd.Flags().StringVarP(&analyzeLocation, "location", "l", "", "Posting location")
	analyzeCmd.Flags().BoolVar(&analyzeRemote, "remote", false, "Posting is remote")
	analyzeCmd.Flags().StringVar(&analyzePostedAt, "posted", "", "Posting date (RFC 3339 or YYYY-MM-DD)")
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "Source URL of the posting")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit the result as JSON instead of formatted output")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for posting history and analysis persistence
	analyzeCmd.Flags().StringVar(&analyzeDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(analyzeConfigPath, cliConfig(cmd))
	if err != nil {
		return err
	}

	facts, err := buildFacts()
	if err != nil {
		return err
	}

	env, err := newAppEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	// Duplicate lookup runs against stored history before this posting is
	// recorded, so a posting never matches itself.
	var duplicate *types.SimilarityScore
	if env.database != nil {
		duplicate = findDuplicate(ctx, env, facts)
	}

	outcome, err := env.detector.Analyze(ctx, facts)
	if err != nil {
		return err
	}

	var analysisID *uuid.UUID
	if env.database != nil {
		postingID := uuid.Nil
		if stored, _, err := env.database.RecordPosting(ctx, facts); err != nil {
			fmt.Printf("Warning: failed to record posting: %v\n", err)
		} else {
			postingID = stored.ID
		}

		if analysis, err := env.database.SaveAnalysis(ctx, facts, outcome, postingID); err != nil {
			fmt.Printf("Warning: failed to save analysis: %v\n", err)
		} else {
			analysisID = &analysis.ID
		}
	}

	if analyzeJSON {
		return printJSON(map[string]any{
			"analysis_id": analysisID,
			"outcome":     outcome,
			"duplicate":   duplicate,
			"degraded":    outcome.Degraded(),
		})
	}

	env.printer.PrintOutcome(outcome)
	if cfg.Verbose {
		env.printer.PrintAdjustments(outcome.Adjustments)
	}
	if duplicate != nil {
		fmt.Printf("Duplicate of stored posting %s (similarity %.2f)\n",
			duplicate.CandidateID, duplicate.WeightedScore)
	}
	return nil
}

// cliConfig collects explicitly set flags into a config overlay.
func cliConfig(cmd *cobra.Command) config.Config {
	var cfg config.Config
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = analyzeDBURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}
	return cfg
}

func buildFacts() (*types.JobFacts, error) {
	if analyzeDesc != "" && analyzeDescFile != "" {
		return nil, fmt.Errorf("--description and --description-file are mutually exclusive; provide only one")
	}

	description := analyzeDesc
	if analyzeDescFile != "" {
		data, err := os.ReadFile(analyzeDescFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read description file: %w", err)
		}
		description = string(data)
	}

	facts := &types.JobFacts{
		Title:       analyzeTitle,
		Company:     analyzeCompany,
		Description: description,
		Location:    analyzeLocation,
		Remote:      analyzeRemote,
		SourceURL:   analyzeURL,
	}

	if analyzePostedAt != "" {
		postedAt, err := parseDate(analyzePostedAt)
		if err != nil {
			return nil, err
		}
		facts.PostedAt = &postedAt
	}
	return facts, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--posted must be RFC 3339 or YYYY-MM-DD, got %q", raw)
	}
	return t, nil
}

func findDuplicate(ctx context.Context, env *appEnv, facts *types.JobFacts) *types.SimilarityScore {
	normalized := env.normalizer.Normalize(ctx, facts.Company)
	if normalized.IsUnknown() {
		return nil
	}

	candidates, err := env.database.ListCandidatesByCompany(ctx, normalized.NormalizedKey, db.DefaultHistoryLimit)
	if err != nil {
		fmt.Printf("Warning: duplicate candidate lookup failed: %v\n", err)
		return nil
	}
	return env.deduper.FindDuplicate(ctx, facts, candidates)
}

func printJSON(data any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
