package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/revenue-atlas/pkg/models/api"
	"github.com/de-tools/revenue-atlas/pkg/services/export"
	"github.com/de-tools/revenue-atlas/pkg/services/revenue"
	"github.com/de-tools/revenue-atlas/pkg/store/mysql"
	revenuestore "github.com/de-tools/revenue-atlas/pkg/store/revenue"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	otcCols = []string{"PatientId", "OtcId", "DATE", "Village", "Cost", "MedicineKP",
		"PaidAmount", "Others", "Discount", "NonPayment", "TestKP", "Name"}
	patientCols = []string{"PatientId", "HistoryId", "DATE", "Village", "COST", "Medicine",
		"ManualFees", "Adjustment", "Doctor", "Others", "reconcilemedicine", "Name"}
)

func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock) {
	t.Helper()

	raw, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	dbMock.MatchExpectationsInOrder(false)
	db := sqlx.NewDb(raw, "sqlmock")

	service := revenue.NewService(revenuestore.NewStore(db, revenuestore.DefaultSettings()))
	config := Config{
		Addr:            ":5000",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Revenue: service,
			Export:  export.NewEncoder(service, nil),
			DB:      mysql.NewPinger(db),
		},
	}

	logger := zerolog.New(zerolog.NewTestWriter(t))
	testServer := httptest.NewServer(NewWebAPI(logger, config).Handler())
	t.Cleanup(func() {
		testServer.Close()
		_ = raw.Close()
	})
	return testServer, dbMock
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err, "Failed to send request")
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestWebAPI_Revenue_Combined(t *testing.T) {
	testServer, dbMock := newTestServer(t)

	dbMock.ExpectQuery(regexp.QuoteMeta(revenuestore.OtcDetailQuery)).
		WithArgs("2024-01-01", "2024-01-02").
		WillReturnRows(sqlmock.NewRows(otcCols).
			AddRow("P1", "O1", "2024-01-01", "Kibera", "170", nil, "150", nil, "20", nil, nil, "North"))
	dbMock.ExpectQuery(regexp.QuoteMeta(revenuestore.PatientDetailQuery)).
		WithArgs("2024-01-01", "2024-01-02", 5).
		WillReturnRows(sqlmock.NewRows(patientCols).
			AddRow("P2", "H1", "2024-01-01", "Kibera", "300", nil, nil, nil, nil, nil, nil, "North").
			AddRow("P3", "H2", "2024-01-02", "Kibera", "1,000", nil, nil, nil, nil, nil, nil, "South"))

	resp := postJSON(t, testServer.URL+"/api/revenue", `{"from":"2024-01-01","to":"2024-01-02","type":"combined"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Type         string             `json:"type"`
		TotalRevenue float64            `json:"totalRevenue"`
		DailyRevenue []api.DailyRevenue `json:"dailyRevenue"`
		OtcRows      []map[string]any   `json:"otcRows"`
		PatientRows  []map[string]any   `json:"patientRows"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "combined", body.Type)
	assert.Equal(t, 1450.0, body.TotalRevenue)
	assert.Equal(t, []api.DailyRevenue{
		{Date: "2024-01-01", TotalRevenue: 450},
		{Date: "2024-01-02", TotalRevenue: 1000},
	}, body.DailyRevenue)
	require.Len(t, body.OtcRows, 1)
	assert.Equal(t, "150", body.OtcRows[0]["PaidAmount"])
	assert.Nil(t, body.OtcRows[0]["MedicineKP"])
	assert.Len(t, body.PatientRows, 2)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestWebAPI_Revenue_MissingParameters(t *testing.T) {
	testServer, dbMock := newTestServer(t)

	for _, path := range []string{"/api/revenue", "/api/revenue/excel", "/api/revenue/breakdown"} {
		t.Run(path, func(t *testing.T) {
			resp := postJSON(t, testServer.URL+path, `{"from":"2024-01-01"}`)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"message":"Missing parameters"}`, string(data))
		})
	}
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestWebAPI_Revenue_DatabaseError(t *testing.T) {
	testServer, dbMock := newTestServer(t)

	dbMock.ExpectQuery(regexp.QuoteMeta(revenuestore.OtcDetailQuery)).
		WillReturnError(io.ErrUnexpectedEOF)

	resp := postJSON(t, testServer.URL+"/api/revenue", `{"from":"2024-01-01","to":"2024-01-31","type":"otc"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Database error"}`, string(data))
}

func TestWebAPI_Excel(t *testing.T) {
	testServer, dbMock := newTestServer(t)

	dbMock.ExpectQuery(regexp.QuoteMeta(revenuestore.PatientDetailQuery)).
		WithArgs("2024-01-01", "2024-01-31", 5).
		WillReturnRows(sqlmock.NewRows(patientCols))

	resp := postJSON(t, testServer.URL+"/api/revenue/excel", `{"from":"2024-01-01","to":"2024-01-31","type":"patient"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=revenue_patient_2024-01-01_2024-01-31.xlsx",
		resp.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestWebAPI_Breakdown(t *testing.T) {
	testServer, dbMock := newTestServer(t)

	cols := []string{"date", "total_cost", "paid_amount", "discount", "non_payment",
		"others", "medicine_revenue", "test_revenue"}
	dbMock.ExpectQuery(regexp.QuoteMeta(revenuestore.OtcDailyQuery)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("2024-01-01", "170.00", "150.00", "20.00", "0.00", nil, "40.00", "0"))

	resp := postJSON(t, testServer.URL+"/api/revenue/breakdown", `{"from":"2024-01-01","to":"2024-01-31","type":"otc"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body api.BreakdownResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.OtcDaily, 1)
	assert.Equal(t, 150.0, body.OtcDaily[0].PaidAmount)
	assert.Equal(t, 0.0, body.OtcDaily[0].Others)
	assert.Empty(t, body.PatientDaily)
}

func TestWebAPI_Health(t *testing.T) {
	testServer, dbMock := newTestServer(t)

	dbMock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	resp, err := http.Get(testServer.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"db":"connected"}`, string(data))
}

func TestWebAPI_CORSPreflight(t *testing.T) {
	testServer, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, testServer.URL+"/api/revenue", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
