// Package artifact decodes fitted model files. Every artifact is a JSON
// document with a "type" discriminator.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/healthsense/predictor/pkg/ml"
	"github.com/healthsense/predictor/pkg/ml/ensemble"
	"github.com/healthsense/predictor/pkg/ml/forest"
	"github.com/healthsense/predictor/pkg/ml/linear"
	"github.com/healthsense/predictor/pkg/ml/scaler"
)

const (
	TypeLinearSVC          = "linear_svc"
	TypeLogisticRegression = "logistic_regression"
	TypeRandomForest       = "random_forest"
	TypeSoftVoting         = "soft_voting"
	TypeStandardScaler     = "standard_scaler"
	TypeMinMaxScaler       = "min_max_scaler"
)

var ErrUnknownType = errors.New("unknown artifact type")

// Document is the union of every artifact layout.
type Document struct {
	Type         string   `json:"type"`
	Version      string   `json:"version,omitempty"`
	FeatureNames []string `json:"feature_names,omitempty"`
	Classes      []string `json:"classes,omitempty"`

	// linear_svc, logistic_regression
	Coefficients [][]float64 `json:"coefficients,omitempty"`
	Intercepts   []float64   `json:"intercepts,omitempty"`

	// random_forest
	NFeatures int           `json:"n_features,omitempty"`
	Trees     []forest.Tree `json:"trees,omitempty"`

	// soft_voting
	Estimators []Document `json:"estimators,omitempty"`
	Weights    []float64  `json:"weights,omitempty"`

	// standard_scaler, min_max_scaler
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`
	Min   []float64 `json:"min,omitempty"`
}

func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decoding artifact: %w", err)
	}
	if doc.Type == "" {
		return Document{}, errors.New("artifact missing type")
	}
	return doc, nil
}

// Classifier builds the classifier described by doc.
func (doc Document) Classifier() (ml.Classifier, error) {
	switch doc.Type {
	case TypeLinearSVC:
		m, err := doc.linear()
		if err != nil {
			return nil, err
		}
		return linear.SVC{Model: m}, nil
	case TypeLogisticRegression, TypeRandomForest, TypeSoftVoting:
		return doc.Probabilistic()
	case TypeStandardScaler, TypeMinMaxScaler:
		return nil, fmt.Errorf("artifact type %q is a transformer, not a classifier", doc.Type)
	default:
		return nil, fmt.Errorf("%q: %w", doc.Type, ErrUnknownType)
	}
}

// Probabilistic builds a classifier that can report class probabilities.
func (doc Document) Probabilistic() (ml.ProbabilisticClassifier, error) {
	switch doc.Type {
	case TypeLogisticRegression:
		m, err := doc.linear()
		if err != nil {
			return nil, err
		}
		return linear.Logistic{Model: m}, nil
	case TypeRandomForest:
		f, err := forest.New(doc.Classes, doc.NFeatures, doc.Trees)
		if err != nil {
			return nil, err
		}
		return f, nil
	case TypeSoftVoting:
		estimators := make([]ml.ProbabilisticClassifier, 0, len(doc.Estimators))
		for i, child := range doc.Estimators {
			est, err := child.Probabilistic()
			if err != nil {
				return nil, fmt.Errorf("estimator %d: %w", i, err)
			}
			estimators = append(estimators, est)
		}
		voting, err := ensemble.NewSoftVoting(doc.Classes, estimators, doc.Weights)
		if err != nil {
			return nil, err
		}
		return voting, nil
	case TypeLinearSVC:
		return nil, fmt.Errorf("artifact type %q has no probability output", doc.Type)
	default:
		return nil, fmt.Errorf("%q: %w", doc.Type, ErrUnknownType)
	}
}

// Transformer builds a fitted row transform.
func (doc Document) Transformer() (ml.Transformer, error) {
	switch doc.Type {
	case TypeStandardScaler:
		s, err := scaler.NewStandard(doc.Mean, doc.Scale)
		if err != nil {
			return nil, err
		}
		return s, nil
	case TypeMinMaxScaler:
		m, err := scaler.NewMinMax(doc.Min, doc.Scale)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("artifact type %q is not a transformer", doc.Type)
	}
}

// CheckLayout compares declared feature names against the serving layout.
// Artifacts without feature names are accepted as is.
func (doc Document) CheckLayout(columns []string) error {
	if len(doc.FeatureNames) == 0 {
		return nil
	}
	if len(doc.FeatureNames) != len(columns) {
		return fmt.Errorf("artifact declares %d features, serving layout has %d", len(doc.FeatureNames), len(columns))
	}
	for i, name := range doc.FeatureNames {
		if name != columns[i] {
			return fmt.Errorf("artifact feature %d is %q, serving layout has %q", i, name, columns[i])
		}
	}
	return nil
}

func (doc Document) linear() (*linear.Model, error) {
	if len(doc.Intercepts) != len(doc.Coefficients) {
		return nil, fmt.Errorf("artifact has %d intercepts for %d coefficient rows", len(doc.Intercepts), len(doc.Coefficients))
	}
	rows := make([]linear.Weights, len(doc.Coefficients))
	for i, coefficients := range doc.Coefficients {
		rows[i] = linear.Weights{Bias: doc.Intercepts[i], Coefficients: coefficients}
	}
	return linear.New(doc.Classes, rows)
}
