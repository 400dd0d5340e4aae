// Package ml defines the inference contracts the services call. Models are
// fitted elsewhere and shipped as artifacts; nothing here trains.
package ml

import (
	"errors"
	"fmt"
)

var ErrFeatureMismatch = errors.New("feature count mismatch")

// Classifier maps one feature row to a class label.
type Classifier interface {
	Predict(features []float64) (string, error)
	Classes() []string
	NumFeatures() int
}

// ProbabilisticClassifier also reports per-class probabilities in Classes order.
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(features []float64) ([]float64, error)
}

// Transformer is a fitted row transform such as a scaler.
type Transformer interface {
	Transform(row []float64) ([]float64, error)
	NumFeatures() int
}

// CheckFeatures returns ErrFeatureMismatch when got differs from want.
func CheckFeatures(want, got int) error {
	if want != got {
		return fmt.Errorf("model expects %d features, got %d: %w", want, got, ErrFeatureMismatch)
	}
	return nil
}

// Argmax returns the index of the largest value, the first one on ties.
func Argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
