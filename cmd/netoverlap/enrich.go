package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/jonathan/network-overlap/internal/enrichment"
	"github.com/spf13/cobra"
)

var (
	enrichAll             bool
	enrichIncludeEnriched bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [colleague-id]",
	Short: "Fetch and store a colleague's employment history",
	Long: `Enrich one colleague by ID, or every colleague with a profile URL using --all.
Fetches are spaced by the rate_limit_ms setting. Press Ctrl-C during --all to stop after the
colleague currently being fetched.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if enrichAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichAll, "all", false, "Enrich every colleague with a profile URL")
	enrichCmd.Flags().BoolVar(&enrichIncludeEnriched, "include-enriched", false, "With --all, also re-enrich colleagues that already have a history")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if enrichAll {
		return runEnrichAll(cmd, a)
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid colleague ID %q: %w", args[0], err)
	}

	result, err := a.pipeline.Enrich(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("enrichment stopped in %s: %w", result.State, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Enriched %s: %d positions\n", result.Name, result.Count)
	return nil
}

func runEnrichAll(cmd *cobra.Command, a *app) error {
	// SIGINT cancels the batch; the colleague in flight still completes.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	summary, err := a.pipeline.EnrichAll(ctx, enrichment.BatchOptions{
		IncludeEnriched: enrichIncludeEnriched,
		OnProgress: func(event enrichment.ProgressEvent) {
			if event.Phase == enrichment.PhaseStarted {
				fmt.Fprintf(out, "[%d/%d] %s ... ", event.Index, event.Total, event.Colleague.Name)
				return
			}
			if event.Error != "" {
				fmt.Fprintf(out, "%s (%s)\n", event.State, event.Error)
				return
			}
			fmt.Fprintf(out, "%s, %d positions\n", event.State, event.Count)
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Done: %d completed, %d failed, %d of %d attempted",
		summary.Completed, summary.Failed, summary.Attempted, summary.Total)
	if summary.Cancelled {
		fmt.Fprint(out, " (cancelled)")
	}
	fmt.Fprintln(out)
	return nil
}
