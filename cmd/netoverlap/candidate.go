package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/network-overlap/internal/types"
	"github.com/spf13/cobra"
)

var (
	candidateResume string
	candidateName   string
)

var candidateCmd = &cobra.Command{
	Use:   "candidate [profile-url]",
	Short: "Look up a candidate by profile URL or create one from a resume",
	Long: `Look up a candidate by profile URL, fetching and storing the profile on first use, or
create one from resume text with --resume. Prints the candidate ID for use with "overlaps".`,
	Args: func(cmd *cobra.Command, args []string) error {
		if candidateResume != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runCandidate,
}

func init() {
	candidateCmd.Flags().StringVar(&candidateResume, "resume", "", "Path to a resume text file, or - for stdin")
	candidateCmd.Flags().StringVarP(&candidateName, "name", "n", "", "Candidate name (with --resume; defaults to the extracted name)")
	rootCmd.AddCommand(candidateCmd)
}

func runCandidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var resumeText string
	if candidateResume != "" {
		data, err := readInput(cmd, candidateResume)
		if err != nil {
			return err
		}
		resumeText = string(data)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if candidateResume != "" {
		candidate, err := a.pipeline.CandidateFromResume(ctx, candidateName, resumeText)
		if err != nil {
			return err
		}
		printCandidate(out, candidate, false)
		return nil
	}

	lookup, err := a.pipeline.LookupCandidate(ctx, args[0])
	if err != nil {
		return err
	}
	printCandidate(out, lookup.Candidate, lookup.Existing)
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func printCandidate(out io.Writer, c *types.Candidate, existing bool) {
	status := "created"
	if existing {
		status = "already stored"
	}
	fmt.Fprintf(out, "%s (%s) %s\n", c.Name, c.ID, status)
	for _, p := range c.History {
		fmt.Fprintf(out, "  %-30s %-30s %s\n", p.CompanyName, p.Title, formatRange(p))
	}
}

func formatRange(p types.EmploymentPeriod) string {
	start := formatYearMonth(p.StartYear, p.StartMonth)
	end := formatYearMonth(p.EndYear, p.EndMonth)
	if p.IsCurrent {
		end = "present"
	}
	return start + " - " + end
}

func formatYearMonth(year, month *int) string {
	switch {
	case year == nil:
		return "?"
	case month == nil:
		return fmt.Sprintf("%d", *year)
	default:
		return fmt.Sprintf("%d-%02d", *year, *month)
	}
}
