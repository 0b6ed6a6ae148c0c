package revenue

import (
	"context"

	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/models/store"
	revenuestore "github.com/de-tools/revenue-atlas/pkg/store/revenue"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Service assembles revenue reports from the source queries.
type Service interface {
	// GetReport runs the requested queries and folds them into daily and grand totals.
	GetReport(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueReport, error)
	// GetDetails runs the requested detail queries without accumulation.
	GetDetails(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueDetails, error)
	// GetBreakdown runs the requested per-day aggregate queries.
	GetBreakdown(ctx context.Context, req domain.RevenueRequest) (*domain.DailyBreakdown, error)
}

type service struct {
	store revenuestore.Store
}

func NewService(store revenuestore.Store) Service {
	return &service{store: store}
}

// GetDetails issues the OTC and patient queries concurrently when both are
// requested. Either failure fails the whole call; no partial details are returned.
func (s *service) GetDetails(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueDetails, error) {
	details := &domain.RevenueDetails{
		OtcRows:     []store.OtcDetailRow{},
		PatientRows: []store.PatientDetailRow{},
	}

	// A plain group: a failing branch does not cancel the other query.
	var g errgroup.Group
	if req.Type.Includes(domain.SourceOTC) {
		g.Go(func() error {
			rows, err := s.store.GetOtcDetails(ctx, req.Range)
			if err != nil {
				return err
			}
			details.OtcRows = rows
			return nil
		})
	}
	if req.Type.Includes(domain.SourcePatient) {
		g.Go(func() error {
			rows, err := s.store.GetPatientDetails(ctx, req.Range)
			if err != nil {
				return err
			}
			details.PatientRows = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *service) GetReport(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueReport, error) {
	logger := zerolog.Ctx(ctx)

	details, err := s.GetDetails(ctx, req)
	if err != nil {
		return nil, err
	}

	totals := NewAccumulator()
	for _, source := range []domain.Source{domain.SourceOTC, domain.SourcePatient} {
		if !req.Type.Includes(source) {
			continue
		}
		acc := NewAccumulator()
		acc.AddRows(source, *details)
		totals.Merge(acc)
	}

	report := &domain.RevenueReport{
		Type:         req.Type,
		Range:        req.Range,
		TotalRevenue: totals.Total(),
		DailyRevenue: totals.Daily(),
		Details:      *details,
	}

	logger.Info().
		Str("type", string(req.Type)).
		Str("from", req.Range.From).
		Str("to", req.Range.To).
		Int("otc_rows", len(details.OtcRows)).
		Int("patient_rows", len(details.PatientRows)).
		Int("days", len(report.DailyRevenue)).
		Msg("revenue report assembled")

	return report, nil
}

func (s *service) GetBreakdown(ctx context.Context, req domain.RevenueRequest) (*domain.DailyBreakdown, error) {
	breakdown := &domain.DailyBreakdown{
		Type:         req.Type,
		Range:        req.Range,
		OtcDaily:     []store.OtcDailyRow{},
		PatientDaily: []store.PatientDailyRow{},
	}

	var g errgroup.Group
	if req.Type.Includes(domain.SourceOTC) {
		g.Go(func() error {
			rows, err := s.store.GetOtcDaily(ctx, req.Range)
			if err != nil {
				return err
			}
			breakdown.OtcDaily = rows
			return nil
		})
	}
	if req.Type.Includes(domain.SourcePatient) {
		g.Go(func() error {
			rows, err := s.store.GetPatientDaily(ctx, req.Range)
			if err != nil {
				return err
			}
			breakdown.PatientDaily = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return breakdown, nil
}
