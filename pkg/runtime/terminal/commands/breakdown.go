package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type BreakdownCmd struct {
	flags    requestFlags
	connect  BackendFunc
	reporter *export.Reporter
}

func NewBreakdownCmd(connect BackendFunc, reporter *export.Reporter) *cobra.Command {
	bc := &BreakdownCmd{connect: connect, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Print per-day revenue components for a date range",
		RunE:  bc.run,
	}
	bc.flags.register(cmd)
	return cmd
}

func (bc *BreakdownCmd) run(cmd *cobra.Command, _ []string) error {
	return withBackend(cmd, bc.connect, &bc.flags,
		func(ctx context.Context, b *Backend, req domain.RevenueRequest) error {
			breakdown, err := b.Revenue.GetBreakdown(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to build breakdown: %w", err)
			}
			return bc.reporter.HandleBreakdown(breakdown)
		})
}
