package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	flags    requestFlags
	connect  BackendFunc
	reporter *export.Reporter
}

func NewReportCmd(connect BackendFunc, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{connect: connect, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print daily and total revenue for a date range",
		RunE:  rc.run,
	}
	rc.flags.register(cmd)
	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	return withBackend(cmd, rc.connect, &rc.flags,
		func(ctx context.Context, b *Backend, req domain.RevenueRequest) error {
			report, err := b.Revenue.GetReport(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to build revenue report: %w", err)
			}
			return rc.reporter.Handle(report)
		})
}
