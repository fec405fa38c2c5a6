// Package main provides the entry point for the network-overlap CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonLogs   bool
	debugLogs  bool
)

var rootCmd = &cobra.Command{
	Use:   "netoverlap",
	Short: "Find who in your network worked with a candidate",
	Long: `netoverlap imports your connections, enriches them with their employment history, and
answers "who in my network worked with this candidate, where, and for how long".`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (environment variables override it)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVarP(&debugLogs, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
