package revenue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/de-tools/revenue-atlas/pkg/models/api"
	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/services/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetReport(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueReport), args.Error(1)
}

func (m *mockService) GetDetails(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueDetails, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueDetails), args.Error(1)
}

func (m *mockService) GetBreakdown(ctx context.Context, req domain.RevenueRequest) (*domain.DailyBreakdown, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyBreakdown), args.Error(1)
}

type mockEncoder struct {
	mock.Mock
}

func (m *mockEncoder) Encode(ctx context.Context, req domain.RevenueRequest) (*export.Workbook, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Workbook), args.Error(1)
}

func post(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/revenue", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Message
}

func TestGetRevenue(t *testing.T) {
	svc := new(mockService)
	want := domain.RevenueRequest{Range: domain.DateRange{From: "2024-01-01", To: "2024-01-01"}, Type: domain.RevenueTypeOTC}
	svc.On("GetReport", mock.Anything, want).Return(&domain.RevenueReport{
		Type:         domain.RevenueTypeOTC,
		Range:        want.Range,
		TotalRevenue: 150,
		DailyRevenue: []domain.DailyTotal{{Date: "2024-01-01", TotalRevenue: 150}},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, nil).GetRevenue(rec, post(`{"from":"2024-01-01","to":"2024-01-01","type":"otc"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "otc", body["type"])
	assert.Equal(t, 150.0, body["totalRevenue"])
	assert.Equal(t, []any{map[string]any{"date": "2024-01-01", "total_revenue": 150.0}}, body["dailyRevenue"])
	assert.Equal(t, []any{}, body["otcRows"])
	assert.Equal(t, []any{}, body["patientRows"])
	svc.AssertExpectations(t)
}

func TestGetRevenue_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "missing type", body: `{"from":"2024-01-01","to":"2024-01-31"}`, message: msgMissingParameters},
		{name: "empty body", body: ``, message: msgMissingParameters},
		{name: "malformed json", body: `{"from":`, message: msgMissingParameters},
		{name: "unknown type", body: `{"from":"2024-01-01","to":"2024-01-31","type":"pharmacy"}`, message: "unsupported revenue type pharmacy"},
		{name: "reversed range", body: `{"from":"2024-02-01","to":"2024-01-01","type":"otc"}`, message: "from must not be after to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			rec := httptest.NewRecorder()

			NewHandler(svc, nil).GetRevenue(rec, post(tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeMessage(t, rec))
			svc.AssertNotCalled(t, "GetReport", mock.Anything, mock.Anything)
		})
	}
}

func TestGetRevenue_DatabaseErrorIsGeneric(t *testing.T) {
	svc := new(mockService)
	svc.On("GetReport", mock.Anything, mock.Anything).
		Return(nil, &domain.DatabaseError{Op: "otc detail query", Err: errors.New("Access denied for user 'root'")})

	rec := httptest.NewRecorder()
	NewHandler(svc, nil).GetRevenue(rec, post(`{"from":"2024-01-01","to":"2024-01-31","type":"combined"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgDatabaseError, decodeMessage(t, rec))
}

func TestGetBreakdown(t *testing.T) {
	svc := new(mockService)
	svc.On("GetBreakdown", mock.Anything, mock.Anything).Return(&domain.DailyBreakdown{
		Type:  domain.RevenueTypePatient,
		Range: domain.DateRange{From: "2024-01-01", To: "2024-01-31"},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, nil).GetBreakdown(rec, post(`{"from":"2024-01-01","to":"2024-01-31","type":"patient"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp api.BreakdownResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "patient", resp.Type)
	assert.Empty(t, resp.OtcDaily)
}

func TestDownloadExcel(t *testing.T) {
	enc := new(mockEncoder)
	enc.On("Encode", mock.Anything, mock.Anything).Return(&export.Workbook{
		Filename: "revenue_otc_2024-01-01_2024-01-31.xlsx",
		Data:     []byte("PK\x03\x04"),
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(nil, enc).DownloadExcel(rec, post(`{"from":"2024-01-01","to":"2024-01-31","type":"otc"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=revenue_otc_2024-01-01_2024-01-31.xlsx", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, []byte("PK\x03\x04"), rec.Body.Bytes())
}

func TestDownloadExcel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		status  int
		message string
	}{
		{name: "missing parameters", body: `{"to":"2024-01-31","type":"otc"}`, status: http.StatusBadRequest, message: msgMissingParameters},
		{name: "query failure", body: `{"from":"2024-01-01","to":"2024-01-31","type":"otc"}`,
			err: &domain.DatabaseError{Op: "otc detail query", Err: errors.New("timeout")}, status: http.StatusInternalServerError, message: msgExportError},
		{name: "encoding failure", body: `{"from":"2024-01-01","to":"2024-01-31","type":"otc"}`,
			err: &domain.ExportError{Op: "write workbook", Err: errors.New("disk full")}, status: http.StatusInternalServerError, message: msgExportError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := new(mockEncoder)
			if tt.err != nil {
				enc.On("Encode", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := httptest.NewRecorder()
			NewHandler(nil, enc).DownloadExcel(rec, post(tt.body))

			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, tt.message, decodeMessage(t, rec))
			enc.AssertExpectations(t)
		})
	}
}
