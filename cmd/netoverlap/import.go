package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <connections.csv>",
	Short: "Import colleagues from a connections CSV export",
	Long: `Import colleagues from a connections export. Only connections whose company contains the
current_company setting are imported; an empty setting imports everyone. Known profile URLs are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close() //nolint:errcheck

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.importer.Import(ctx, f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d colleagues (%d already known)\n", result.Imported, result.Skipped)
	fmt.Fprintf(out, "Filter: %s (%d of %d rows filtered out)\n", result.Filter, result.FilteredOut, result.Total)
	return nil
}
