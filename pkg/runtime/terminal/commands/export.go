package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	flags   requestFlags
	out     string
	connect BackendFunc
}

func NewExportCmd(connect BackendFunc) *cobra.Command {
	ec := &ExportCmd{connect: connect}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the detail rows for a date range to an .xlsx file",
		RunE:  ec.run,
	}
	ec.flags.register(cmd)
	cmd.Flags().StringVar(&ec.out, "out", "", "Output path (defaults to the suggested filename)")
	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	return withBackend(cmd, ec.connect, &ec.flags,
		func(ctx context.Context, b *Backend, req domain.RevenueRequest) error {
			wb, err := b.Export.Encode(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to generate workbook: %w", err)
			}

			path := ec.out
			if path == "" {
				path = wb.Filename
			}
			if err := os.WriteFile(path, wb.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(wb.Data), path)
			return nil
		})
}
