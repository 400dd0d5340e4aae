// Package disease serves prediction from a pre-encoded symptom vector using
// two models side by side.
package disease

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/healthsense/predictor/pkg/common/logger"
	"github.com/healthsense/predictor/pkg/common/models"
	"github.com/healthsense/predictor/pkg/features"
	"github.com/healthsense/predictor/pkg/gateway/middleware"
	"github.com/healthsense/predictor/pkg/serving"
	"github.com/healthsense/predictor/pkg/serving/predictor"
)

type Dependencies struct {
	// VectorSize is the vocabulary length both models were fitted on.
	VectorSize   int
	Validator    *features.Validator
	SVM          *predictor.Predictor
	RandomForest *predictor.Predictor
}

type Handler struct {
	deps              Dependencies
	exposeErrorDetail bool
}

func NewHandler(deps Dependencies, exposeErrorDetail bool) *Handler {
	return &Handler{deps: deps, exposeErrorDetail: exposeErrorDetail}
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/predict-disease", h.handlePredictDisease).Methods(http.MethodPost)
}

// handlePredictDisease accepts an all-zero vector; only shape is checked.
// Both models must succeed since their labels are returned together.
func (h *Handler) handlePredictDisease(w http.ResponseWriter, r *http.Request) {
	var req models.DiseaseVectorRequest
	if err := serving.Decode(r, &req); err != nil {
		serving.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	vector, err := h.deps.Validator.Vector(req.Inputs, h.deps.VectorSize)
	if err != nil {
		serving.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := logger.WithField("request_id", middleware.RequestID(r.Context()))
	svmLabel, err := h.deps.SVM.Predict(vector)
	if err != nil {
		log.WithError(err).Error("Disease prediction failed")
		h.writeFailure(w, err)
		return
	}
	forestLabel, err := h.deps.RandomForest.Predict(vector)
	if err != nil {
		log.WithError(err).Error("Disease prediction failed")
		h.writeFailure(w, err)
		return
	}

	serving.WriteJSON(w, http.StatusOK, models.DiseaseVectorResponse{
		SVM8020:      svmLabel,
		RandomForest: forestLabel,
	})
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	detail := "Prediction failed"
	if h.exposeErrorDetail {
		detail += ": " + err.Error()
	}
	serving.WriteError(w, http.StatusInternalServerError, detail)
}
