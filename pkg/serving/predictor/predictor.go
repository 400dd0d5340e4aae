// Package predictor invokes fitted models on prepared feature rows and shapes
// their output. Models are shared read-only after startup, so a Predictor is
// safe for concurrent use without locking.
package predictor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/healthsense/predictor/pkg/ml"
	"github.com/healthsense/predictor/pkg/observability/metrics"
)

// InferenceError wraps any failure inside scaling or a model call.
type InferenceError struct {
	Model string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Model, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

func IsInferenceError(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie)
}

type Predictor struct {
	name    string
	model   ml.Classifier
	metrics *metrics.Metrics
}

func New(name string, model ml.Classifier, m *metrics.Metrics) *Predictor {
	return &Predictor{name: name, model: model, metrics: m}
}

func (p *Predictor) Predict(features []float64) (string, error) {
	start := time.Now()
	label, err := p.model.Predict(features)
	p.metrics.ObserveInference(p.name, time.Since(start), err)
	if err != nil {
		return "", fail(p.name, err)
	}
	return label, nil
}

// Scaler applies a fitted transform to survey rows before inference.
type Scaler struct {
	name      string
	transform ml.Transformer
	metrics   *metrics.Metrics
}

func NewScaler(name string, t ml.Transformer, m *metrics.Metrics) *Scaler {
	return &Scaler{name: name, transform: t, metrics: m}
}

// Transform returns the transformer output unchanged.
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	start := time.Now()
	out, err := s.transform.Transform(row)
	s.metrics.ObserveInference(s.name, time.Since(start), err)
	if err != nil {
		return nil, fail(s.name, err)
	}
	return out, nil
}

// Result is a label with the probability of the positive class.
type Result struct {
	Label      string
	Confidence float64
}

// ProbabilityPredictor reports the label and the probability of the class at
// index 1, the positive class of a binary model.
type ProbabilityPredictor struct {
	name    string
	model   ml.ProbabilisticClassifier
	metrics *metrics.Metrics
}

const positiveClass = 1

func NewProbability(name string, model ml.ProbabilisticClassifier, m *metrics.Metrics) (*ProbabilityPredictor, error) {
	if len(model.Classes()) <= positiveClass {
		return nil, fmt.Errorf("%s: need at least %d classes, got %d", name, positiveClass+1, len(model.Classes()))
	}
	return &ProbabilityPredictor{name: name, model: model, metrics: m}, nil
}

func (p *ProbabilityPredictor) Predict(features []float64) (Result, error) {
	start := time.Now()
	label, err := p.model.Predict(features)
	var proba []float64
	if err == nil {
		proba, err = p.model.PredictProba(features)
	}
	p.metrics.ObserveInference(p.name, time.Since(start), err)
	if err != nil {
		return Result{}, fail(p.name, err)
	}
	if len(proba) <= positiveClass {
		return Result{}, fail(p.name, fmt.Errorf("model returned %d probabilities", len(proba)))
	}
	confidence := proba[positiveClass]
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return Result{}, fail(p.name, fmt.Errorf("positive class probability %v outside [0, 1]", confidence))
	}
	return Result{Label: label, Confidence: RoundProbability(confidence, 4)}, nil
}

// RoundProbability rounds the exact binary value of p, so 0.11115 (stored
// just below the tie) becomes 0.1111.
func RoundProbability(p float64, decimals int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(p, 'f', decimals, 64), 64)
	if err != nil {
		return p
	}
	return rounded
}

// fail wraps err without logging; handlers log it with the request ID.
func fail(model string, err error) error {
	return &InferenceError{Model: model, Err: err}
}
