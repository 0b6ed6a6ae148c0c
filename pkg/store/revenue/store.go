package revenue

import (
	"context"
	"time"

	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/models/store"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Store runs the revenue queries against the source database. It never writes.
type Store interface {
	GetOtcDetails(ctx context.Context, dateRange domain.DateRange) ([]store.OtcDetailRow, error)
	GetPatientDetails(ctx context.Context, dateRange domain.DateRange) ([]store.PatientDetailRow, error)
	GetOtcDaily(ctx context.Context, dateRange domain.DateRange) ([]store.OtcDailyRow, error)
	GetPatientDaily(ctx context.Context, dateRange domain.DateRange) ([]store.PatientDailyRow, error)
}

type Settings struct {
	ExcludedDivisionID int
	// QueryTimeout bounds connection acquisition plus execution; zero means none.
	QueryTimeout time.Duration
}

func DefaultSettings() Settings {
	return Settings{ExcludedDivisionID: ExcludedDivisionID}
}

type revenueStore struct {
	db       *sqlx.DB
	settings Settings
}

func NewStore(db *sqlx.DB, settings Settings) Store {
	return &revenueStore{
		db:       db,
		settings: settings,
	}
}

func (s *revenueStore) GetOtcDetails(ctx context.Context, dateRange domain.DateRange) ([]store.OtcDetailRow, error) {
	rows := make([]store.OtcDetailRow, 0)
	if err := s.selectAll(ctx, "otc detail query", &rows, OtcDetailQuery, dateRange.From, dateRange.To); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("rows", len(rows)).Msg("otc rows")
	return rows, nil
}

func (s *revenueStore) GetPatientDetails(ctx context.Context, dateRange domain.DateRange) ([]store.PatientDetailRow, error) {
	rows := make([]store.PatientDetailRow, 0)
	err := s.selectAll(ctx, "patient detail query", &rows, PatientDetailQuery,
		dateRange.From, dateRange.To, s.settings.ExcludedDivisionID)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("rows", len(rows)).Msg("patient rows")
	return rows, nil
}

func (s *revenueStore) GetOtcDaily(ctx context.Context, dateRange domain.DateRange) ([]store.OtcDailyRow, error) {
	rows := make([]store.OtcDailyRow, 0)
	err := s.selectAll(ctx, "otc daily query", &rows, OtcDailyQuery,
		dateRange.From, dateRange.To,
		dateRange.From, dateRange.To,
		dateRange.From, dateRange.To,
	)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *revenueStore) GetPatientDaily(ctx context.Context, dateRange domain.DateRange) ([]store.PatientDailyRow, error) {
	rows := make([]store.PatientDailyRow, 0)
	err := s.selectAll(ctx, "patient daily query", &rows, PatientDailyQuery,
		dateRange.From, dateRange.To, s.settings.ExcludedDivisionID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// selectAll holds one pooled connection for the duration of a single query and
// returns it on every path.
func (s *revenueStore) selectAll(ctx context.Context, op string, dest any, query string, args ...any) error {
	logger := zerolog.Ctx(ctx)

	if s.settings.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.QueryTimeout)
		defer cancel()
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return &domain.DatabaseError{Op: op + ": acquire connection", Err: err}
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn().Err(err).Str("op", op).Msg("failed to release connection")
		}
	}()

	if err := conn.SelectContext(ctx, dest, query, args...); err != nil {
		return &domain.DatabaseError{Op: op, Err: err}
	}
	return nil
}
