package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jonathan/network-overlap/internal/types"
	"github.com/spf13/cobra"
)

var overlapsJSON bool

var overlapsCmd = &cobra.Command{
	Use:   "overlaps <candidate-id>",
	Short: "List network members who worked with a candidate",
	Long:  `List network members who worked at the same company as the candidate at the same time, ranked by overlap length.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runOverlaps,
}

func init() {
	overlapsCmd.Flags().BoolVar(&overlapsJSON, "json", false, "Print the overlap facts as JSON")
	rootCmd.AddCommand(overlapsCmd)
}

func runOverlaps(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid candidate ID %q: %w", args[0], err)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	facts, err := a.overlaps.ResolveOverlaps(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if overlapsJSON {
		if facts == nil {
			facts = []types.OverlapFact{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(facts)
	}
	printOverlaps(out, facts)
	return nil
}

func printOverlaps(out io.Writer, facts []types.OverlapFact) {
	if len(facts) == 0 {
		fmt.Fprintln(out, "No overlaps found")
		return
	}
	for _, f := range facts {
		duration := "unknown duration"
		if f.OverlapMonths != nil {
			duration = fmt.Sprintf("%d months", *f.OverlapMonths)
		}
		window := ""
		if f.OverlapPeriod != nil {
			window = fmt.Sprintf(" (%s to %s)", f.OverlapPeriod.Start, f.OverlapPeriod.End)
		}
		fmt.Fprintf(out, "%s at %s: %s%s\n", f.Colleague.Name, f.Company, duration, window)
	}
}
