package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/services/export"
	"github.com/de-tools/revenue-atlas/pkg/services/revenue"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultTimeout = 60 * time.Second

// Backend is what a command needs from the wired application.
type Backend struct {
	Revenue revenue.Service
	Export  export.Encoder
	Logger  zerolog.Logger
	Close   func() error
}

type BackendFunc func(ctx context.Context) (*Backend, error)

// requestFlags are shared by every revenue command.
type requestFlags struct {
	from        string
	to          string
	revenueType string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Start date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&f.to, "to", "", "End date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&f.revenueType, "type", string(domain.RevenueTypeCombined),
		"Revenue type: otc, patient or combined")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

func (f *requestFlags) request() (domain.RevenueRequest, error) {
	req, err := domain.NewRevenueRequest(f.from, f.to, f.revenueType)
	if err != nil {
		return domain.RevenueRequest{}, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

// withBackend validates the flags before connecting, so a bad request never
// touches the database.
func withBackend(cmd *cobra.Command, connect BackendFunc, flags *requestFlags,
	run func(ctx context.Context, b *Backend, req domain.RevenueRequest) error) error {
	req, err := flags.request()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), defaultTimeout)
	defer cancel()

	b, err := connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if b.Close != nil {
		defer func() { _ = b.Close() }()
	}

	return run(b.Logger.WithContext(ctx), b, req)
}
