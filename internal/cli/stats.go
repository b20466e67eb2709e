package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/spec-kit/feedback-portal/internal/service"
)

// StatsCmd returns the stats command.
func StatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print feedback statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close() //nolint:errcheck

			stats, err := service.NewStatsService(session.departments, session.feedback).Compute(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to compute stats: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "Total feedback: %d\n", stats.TotalFeedbacks)
			if stats.LastSubmission != nil {
				fmt.Fprintf(out, "Last submission: %s\n", stats.LastSubmission.In(session.cfg.Export.Location).Format("2006-01-02 15:04:05"))
			}
			for _, d := range stats.Departments {
				name := d.Name
				if d.Active {
					name += " " + color.New(color.FgGreen).Sprint("[active]")
				}
				avg := color.New(color.FgYellow).Sprint("n/a")
				if d.AverageScore != nil {
					avg = fmt.Sprintf("%.2f", *d.AverageScore)
				}
				fmt.Fprintf(out, "  %-40s %5d  avg %s\n", name, d.FeedbackCount, avg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the statistics as JSON")
	return cmd
}
