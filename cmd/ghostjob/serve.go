package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ghost-job-detector/internal/config"
	"github.com/jonathan/ghost-job-detector/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes analysis, history, and stats endpoints.`,
	RunE:  runServe,
}

var (
	serveConfigPath string
	servePort       int
	serveDBURL      string
	serveAPIKey     string
	serveVerbose    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	var overlay config.Config
	if cmd.Flags().Changed("db-url") {
		overlay.DatabaseURL = serveDBURL
	}
	if cmd.Flags().Changed("api-key") {
		overlay.APIKey = serveAPIKey
	}
	if cmd.Flags().Changed("verbose") {
		overlay.Verbose = serveVerbose
	}
	if cmd.Flags().Changed("port") {
		overlay.Port = servePort
	}

	cfg, err := resolveConfig(serveConfigPath, overlay)
	if err != nil {
		return err
	}
	port := cfg.Port
	if port == 0 {
		port = servePort
	}

	srv, err := server.New(server.Config{
		Port:        port,
		DatabaseURL: cfg.DatabaseURL,
		APIKey:      cfg.APIKey,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
