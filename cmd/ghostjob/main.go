// Package main provides the entry point for the ghost job detector CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ghostjob",
	Short: "Ghost job detector",
	Long:  "Ghost job detector scores job postings for the likelihood that they do not correspond to a genuine, active hiring intent, using fused heuristic, semantic, and verification signals.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
