// Package ensemble combines probabilistic classifiers by soft voting.
package ensemble

import (
	"errors"
	"fmt"

	"github.com/healthsense/predictor/pkg/ml"
)

type SoftVoting struct {
	classes    []string
	estimators []ml.ProbabilisticClassifier
	weights    []float64
	features   int
}

// NewSoftVoting requires every estimator to share classes (same order) and
// feature count. Nil weights means equal weighting.
func NewSoftVoting(classes []string, estimators []ml.ProbabilisticClassifier, weights []float64) (*SoftVoting, error) {
	if len(estimators) == 0 {
		return nil, errors.New("ensemble has no estimators")
	}
	if weights == nil {
		weights = make([]float64, len(estimators))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(estimators) {
		return nil, fmt.Errorf("ensemble has %d weights for %d estimators", len(weights), len(estimators))
	}
	var total float64
	for _, w := range weights {
		if w < 0 {
			return nil, errors.New("ensemble weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return nil, errors.New("ensemble weights sum to zero")
	}

	features := estimators[0].NumFeatures()
	for i, est := range estimators {
		if !sameClasses(classes, est.Classes()) {
			return nil, fmt.Errorf("estimator %d classes %v differ from %v", i, est.Classes(), classes)
		}
		if est.NumFeatures() != features {
			return nil, fmt.Errorf("estimator %d expects %d features, first expects %d", i, est.NumFeatures(), features)
		}
	}
	return &SoftVoting{classes: classes, estimators: estimators, weights: weights, features: features}, nil
}

func (s *SoftVoting) Classes() []string {
	return s.classes
}

func (s *SoftVoting) NumFeatures() int {
	return s.features
}

func (s *SoftVoting) PredictProba(sample []float64) ([]float64, error) {
	if err := ml.CheckFeatures(s.features, len(sample)); err != nil {
		return nil, err
	}
	proba := make([]float64, len(s.classes))
	var total float64
	for i, est := range s.estimators {
		p, err := est.PredictProba(sample)
		if err != nil {
			return nil, fmt.Errorf("estimator %d: %w", i, err)
		}
		for c := range proba {
			proba[c] += s.weights[i] * p[c]
		}
		total += s.weights[i]
	}
	for c := range proba {
		proba[c] /= total
	}
	return proba, nil
}

func (s *SoftVoting) Predict(sample []float64) (string, error) {
	proba, err := s.PredictProba(sample)
	if err != nil {
		return "", err
	}
	return s.classes[ml.Argmax(proba)], nil
}

func sameClasses(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
