// Package main provides the entry point for the careerpilot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerpilot",
	Short: "CareerPilot matching and scoring engine",
	Long:  "CareerPilot scores resumes for ATS readiness, ranks job postings and courses for a candidate, and reports skill gaps against jobs and roles.",

	SilenceUsage: true,
}

var (
	rootConfigPath  string
	rootVerbose     bool
	rootLogJSON     bool
	rootCatalogDir  string
	rootSQLitePath  string
	rootDatabaseURL string
	rootConcurrency int
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootConfigPath, "config", "c", "", "Path to a JSON or YAML config file")
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Print boxed summaries and debug logs")
	flags.BoolVar(&rootLogJSON, "log-json", false, "Emit logs as JSON")
	flags.StringVar(&rootCatalogDir, "catalog-dir", "", "Directory holding jobs.json, courses.json and roles.json")
	flags.StringVar(&rootSQLitePath, "sqlite", "", "Path to a SQLite catalog snapshot")
	flags.StringVar(&rootDatabaseURL, "database-url", "", "PostgreSQL catalog connection URL")
	flags.IntVar(&rootConcurrency, "concurrency", 0, "Batch scoring workers (0 uses GOMAXPROCS)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
