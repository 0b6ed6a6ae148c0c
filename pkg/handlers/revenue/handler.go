package revenue

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/de-tools/revenue-atlas/pkg/adapters"
	"github.com/de-tools/revenue-atlas/pkg/models/api"
	"github.com/de-tools/revenue-atlas/pkg/models/domain"
	"github.com/de-tools/revenue-atlas/pkg/services/export"
	"github.com/de-tools/revenue-atlas/pkg/services/revenue"
	"github.com/rs/zerolog"
)

const (
	msgMissingParameters = "Missing parameters"
	msgDatabaseError     = "Database error"
	msgExportError       = "Excel generation failed"
)

type Handler struct {
	service revenue.Service
	encoder export.Encoder
}

func NewHandler(service revenue.Service, encoder export.Encoder) *Handler {
	return &Handler{
		service: service,
		encoder: encoder,
	}
}

func (h *Handler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, r, err, msgDatabaseError)
		return
	}

	report, err := h.service.GetReport(ctx, req)
	if err != nil {
		writeError(w, r, err, msgDatabaseError)
		return
	}

	writeJSON(w, http.StatusOK, adapters.MapDomainReportToAPI(report))
	logger.Debug().Float64("total_revenue", report.TotalRevenue).Msg("revenue served")
}

func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, r, err, msgDatabaseError)
		return
	}

	breakdown, err := h.service.GetBreakdown(ctx, req)
	if err != nil {
		writeError(w, r, err, msgDatabaseError)
		return
	}

	writeJSON(w, http.StatusOK, adapters.MapDomainBreakdownToAPI(breakdown))
}

// DownloadExcel buffers the whole workbook before writing headers so that a
// generation failure can still be reported as a 500.
func (h *Handler) DownloadExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, r, err, msgExportError)
		return
	}

	wb, err := h.encoder.Encode(ctx, req)
	if err != nil {
		writeError(w, r, err, msgExportError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+wb.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(wb.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(wb.Data); err != nil {
		logger.Error().Err(err).Str("filename", wb.Filename).Msg("failed to stream workbook")
	}
}

func decodeRequest(r *http.Request) (domain.RevenueRequest, error) {
	var body api.RevenueRequest
	if r.Body != nil {
		// An unreadable body is treated as empty so it reports missing fields.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	return domain.NewRevenueRequest(body.From, body.To, body.Type)
}

// writeError maps the error taxonomy to a status and a generic message.
// Internal details are only logged.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	logger := zerolog.Ctx(r.Context())

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		logger.Info().Err(err).Msg("rejected revenue request")
		message := msgMissingParameters
		if !validationErr.Missing() {
			message = validationErr.Reason
		}
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Message: message})
		return
	}

	message := fallback
	var dbErr *domain.DatabaseError
	var exportErr *domain.ExportError
	switch {
	case errors.As(err, &exportErr):
		message = msgExportError
		logger.Error().Err(err).Msg("export failed")
	case errors.As(err, &dbErr):
		logger.Error().Err(err).Msg("revenue query failed")
	default:
		logger.Error().Err(err).Msg("revenue request failed")
	}
	writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
