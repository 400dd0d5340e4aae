// Package assessment serves symptom-name disease prediction and the
// depression-risk survey.
package assessment

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/healthsense/predictor/pkg/common/logger"
	"github.com/healthsense/predictor/pkg/common/models"
	"github.com/healthsense/predictor/pkg/features"
	"github.com/healthsense/predictor/pkg/gateway/middleware"
	"github.com/healthsense/predictor/pkg/serving"
	"github.com/healthsense/predictor/pkg/serving/predictor"
	"github.com/sirupsen/logrus"
)

// Dependencies are built once at startup and only read afterwards.
type Dependencies struct {
	Encoder    *features.SymptomEncoder
	Mapper     *features.SurveyMapper
	Validator  *features.Validator
	SVM        *predictor.Predictor
	Scaler     *predictor.Scaler
	Depression *predictor.ProbabilityPredictor
}

type Options struct {
	// LogRequestPayloads adds raw survey answers to failure logs.
	LogRequestPayloads bool
	// ExposeErrorDetail appends internal error text to 500 responses.
	ExposeErrorDetail bool
}

type Handler struct {
	deps Dependencies
	opts Options
}

func NewHandler(deps Dependencies, opts Options) *Handler {
	return &Handler{deps: deps, opts: opts}
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/predict", h.handlePredict).Methods(http.MethodPost)
	router.HandleFunc("/predict_depression", h.handlePredictDepression).Methods(http.MethodPost)
	router.HandleFunc("/symptoms", h.handleSymptoms).Methods(http.MethodGet)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req models.SymptomRequest
	if err := serving.Decode(r, &req); err != nil {
		serving.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.deps.Validator.Symptoms(req.Symptoms); err != nil {
		serving.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := logger.WithField("request_id", middleware.RequestID(r.Context()))
	if unknown := h.deps.Encoder.Unknown(req.Symptoms); len(unknown) > 0 {
		log.WithField("unknown", len(unknown)).Debug("Ignoring symptoms outside vocabulary")
	}

	vector := h.deps.Encoder.Encode(req.Symptoms)
	label, err := h.deps.SVM.Predict(features.Floats(vector))
	if err != nil {
		log.WithError(err).Error("Disease prediction failed")
		h.writeFailure(w, "Prediction failed", err)
		return
	}

	serving.WriteJSON(w, http.StatusOK, models.SymptomPredictionResponse{SVM8020: label})
}

func (h *Handler) handlePredictDepression(w http.ResponseWriter, r *http.Request) {
	var in features.SurveyInput
	if err := serving.Decode(r, &in); err != nil {
		serving.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := h.deps.Validator.Survey(in)
	if err != nil {
		serving.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	log := logger.WithField("request_id", middleware.RequestID(r.Context()))
	if h.opts.LogRequestPayloads {
		log = log.WithField("input", logrus.Fields(in.Fields()))
	}

	row := h.deps.Mapper.Map(record)
	scaled, err := h.deps.Scaler.Transform(row)
	if err != nil {
		log.WithError(err).Error("Depression prediction failed")
		h.writeFailure(w, "Depression prediction failed", err)
		return
	}
	result, err := h.deps.Depression.Predict(scaled)
	if err != nil {
		log.WithError(err).Error("Depression prediction failed")
		h.writeFailure(w, "Depression prediction failed", err)
		return
	}
	prediction, err := strconv.Atoi(result.Label)
	if err != nil {
		log.WithError(err).WithField("label", result.Label).Error("Depression model returned a non-integer label")
		h.writeFailure(w, "Depression prediction failed", err)
		return
	}

	serving.WriteJSON(w, http.StatusOK, models.DepressionPredictionResponse{
		Prediction: prediction,
		Confidence: result.Confidence,
	})
}

func (h *Handler) handleSymptoms(w http.ResponseWriter, r *http.Request) {
	vocab := h.deps.Encoder.Vocabulary()
	serving.WriteJSON(w, http.StatusOK, models.VocabularyResponse{
		Version:     vocab.Version(),
		Fingerprint: vocab.Fingerprint(),
		Symptoms:    vocab.Names(),
	})
}

func (h *Handler) writeFailure(w http.ResponseWriter, detail string, err error) {
	if h.opts.ExposeErrorDetail {
		detail += ": " + err.Error()
	}
	serving.WriteError(w, http.StatusInternalServerError, detail)
}
