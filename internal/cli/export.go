package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spec-kit/feedback-portal/internal/service"
)

// ExportCmd returns the export command.
func ExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the feedback spreadsheet to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close() //nolint:errcheck

			exporter := service.NewExportService(session.departments, session.feedback, session.cfg.Export.Location)
			data, err := exporter.Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to render export: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s (%d bytes)\n",
				color.New(color.FgGreen).Sprint("✓"), out, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", service.ExportFileName, "output file")
	return cmd
}
