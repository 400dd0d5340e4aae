package serving

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/healthsense/predictor/pkg/common/logger"
	"github.com/healthsense/predictor/pkg/common/models"
	"github.com/healthsense/predictor/pkg/observability/metrics"
)

var ErrInvalidBody = errors.New("invalid request body")

// OpsHandler serves the routes every prediction service exposes besides its
// prediction endpoints.
type OpsHandler struct {
	inventory *Inventory
	history   LoadHistory
	metrics   *metrics.Metrics
}

// NewOpsHandler accepts a nil history when the registry is disabled.
func NewOpsHandler(inventory *Inventory, history LoadHistory, m *metrics.Metrics) *OpsHandler {
	return &OpsHandler{inventory: inventory, history: history, metrics: m}
}

func (h *OpsHandler) Register(router *mux.Router) {
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/models", h.handleModels).Methods(http.MethodGet)
	if h.history != nil {
		router.HandleFunc("/models/history", h.handleHistory).Methods(http.MethodGet)
	}
	if h.metrics != nil {
		router.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	}
}

func (h *OpsHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, models.HealthResponse{Status: "healthy", Service: h.inventory.Service()})
}

func (h *OpsHandler) handleModels(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": h.inventory.Loaded()})
}

func (h *OpsHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	loads, err := h.history.Recent(r.Context(), h.inventory.Service(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list artifact loads")
		WriteError(w, http.StatusInternalServerError, "failed to list artifact loads")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": loads})
}

// Decode reads a JSON body into dst. Any decoding failure, including an
// oversized body, is reported as ErrInvalidBody.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrInvalidBody
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, models.ErrorResponse{Detail: detail})
}
