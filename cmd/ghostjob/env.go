package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/ghost-job-detector/internal/company"
	"github.com/jonathan/ghost-job-detector/internal/config"
	"github.com/jonathan/ghost-job-detector/internal/db"
	"github.com/jonathan/ghost-job-detector/internal/dedup"
	"github.com/jonathan/ghost-job-detector/internal/detector"
	"github.com/jonathan/ghost-job-detector/internal/llm"
	"github.com/jonathan/ghost-job-detector/internal/observability"
	"github.com/jonathan/ghost-job-detector/internal/signals"
)

// appEnv holds the wired collaborators shared by the CLI commands.
type appEnv struct {
	cfg        config.Config
	database   *db.DB
	llmClient  llm.Client
	detector   *detector.Detector
	deduper    *dedup.Detector
	normalizer *company.Normalizer
	printer    *observability.Printer
}

// resolveConfig loads the optional config file and applies environment
// fallbacks for credentials.
func resolveConfig(configPath string, cfg config.Config) (config.Config, error) {
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = cfg.MergeWithDefaults(*loaded)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, cfg.Validate()
}

// newAppEnv wires the detector and its collaborators. Missing collaborators
// degrade the corresponding signals instead of failing startup, except for
// an unreachable database that was explicitly configured.
func newAppEnv(ctx context.Context, cfg config.Config) (*appEnv, error) {
	env := &appEnv{
		cfg:     cfg,
		printer: observability.NewPrinter(os.Stdout),
	}

	deps := detector.Deps{
		DomainSpacing: time.Duration(cfg.DomainSpacingSeconds) * time.Second,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		env.database = database
		deps.History = database
		env.normalizer = company.NewNormalizer(database)
	} else {
		deps.History = signals.NewMemoryHistoryStore()
		env.normalizer = company.NewNormalizer(company.NewMemoryAliasStore())
	}
	deps.Normalizer = env.normalizer

	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			fmt.Printf("Warning: language model unavailable: %v\n", err)
			fmt.Printf("Continuing without the semantic signal...\n")
		} else {
			env.llmClient = client
			deps.LLM = client
		}
	}

	env.detector = detector.New(detector.Options{
		Extractors:          detector.DefaultExtractors(deps),
		HighRiskThreshold:   cfg.HighRiskThreshold,
		MediumRiskThreshold: cfg.MediumRiskThreshold,
		SignalTimeout:       time.Duration(cfg.SignalTimeoutSeconds) * time.Second,
		Verbose:             cfg.Verbose,
	})
	env.deduper = dedup.NewDetector(env.normalizer)

	return env, nil
}

// Close releases the environment's long-lived resources.
func (e *appEnv) Close() {
	if e.llmClient != nil {
		_ = e.llmClient.Close()
	}
	if e.database != nil {
		e.database.Close()
	}
}
