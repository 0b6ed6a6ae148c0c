package health

import (
	"encoding/json"
	"net/http"

	"github.com/de-tools/revenue-atlas/pkg/models/api"
	"github.com/de-tools/revenue-atlas/pkg/store/mysql"
	"github.com/rs/zerolog"
)

type Handler struct {
	db mysql.Pinger
}

func NewHandler(db mysql.Pinger) *Handler {
	return &Handler{db: db}
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	w.Header().Set("Content-Type", "application/json")

	if err := h.db.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("health check failed")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(api.HealthResponse{OK: false, DBError: err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(api.HealthResponse{OK: true, DB: "connected"})
	if err != nil {
		logger.Error().Err(err).Msg("failed to encode health response")
	}
}
