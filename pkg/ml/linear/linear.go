package linear

import (
	"errors"
	"fmt"
	"math"

	"github.com/healthsense/predictor/pkg/ml"
)

// Weights holds one decision row.
type Weights struct {
	Bias         float64   `json:"bias"`
	Coefficients []float64 `json:"coefficients"`
}

// Model is a fitted linear classifier. A binary model has a single row whose
// positive decision selects Classes[1]; otherwise there is one row per class.
type Model struct {
	classes  []string
	rows     []Weights
	features int
}

func New(classes []string, rows []Weights) (*Model, error) {
	if len(classes) < 2 {
		return nil, errors.New("linear model needs at least two classes")
	}
	if len(rows) == 0 {
		return nil, errors.New("linear model has no weights")
	}
	if len(rows) != 1 && len(rows) != len(classes) {
		return nil, fmt.Errorf("linear model has %d rows for %d classes", len(rows), len(classes))
	}
	if len(rows) == 1 && len(classes) != 2 {
		return nil, fmt.Errorf("single-row linear model needs 2 classes, got %d", len(classes))
	}
	features := len(rows[0].Coefficients)
	for i, row := range rows {
		if len(row.Coefficients) != features {
			return nil, fmt.Errorf("row %d has %d coefficients, expected %d", i, len(row.Coefficients), features)
		}
	}
	return &Model{classes: classes, rows: rows, features: features}, nil
}

func (m *Model) Classes() []string {
	return m.classes
}

func (m *Model) NumFeatures() int {
	return m.features
}

// Decision returns the raw decision value of every row.
func (m *Model) Decision(sample []float64) ([]float64, error) {
	if err := ml.CheckFeatures(m.features, len(sample)); err != nil {
		return nil, err
	}
	out := make([]float64, len(m.rows))
	for i, row := range m.rows {
		out[i] = dot(row.Coefficients, sample) + row.Bias
	}
	return out, nil
}

func (m *Model) Predict(sample []float64) (string, error) {
	scores, err := m.Decision(sample)
	if err != nil {
		return "", err
	}
	if len(scores) == 1 {
		if scores[0] > 0 {
			return m.classes[1], nil
		}
		return m.classes[0], nil
	}
	return m.classes[ml.Argmax(scores)], nil
}

// SVC is a linear support vector classifier; it has no probability output.
type SVC struct {
	*Model
}

// Logistic adds calibrated probabilities: sigmoid for binary, softmax otherwise.
type Logistic struct {
	*Model
}

func (l Logistic) PredictProba(sample []float64) ([]float64, error) {
	scores, err := l.Decision(sample)
	if err != nil {
		return nil, err
	}
	if len(scores) == 1 {
		p := sigmoid(scores[0])
		return []float64{1 - p, p}, nil
	}
	return softmax(scores), nil
}

func dot(weights []float64, sample []float64) float64 {
	var sum float64
	for i := 0; i < len(weights); i++ {
		sum += weights[i] * sample[i]
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(scores []float64) []float64 {
	maxScore := scores[ml.Argmax(scores)]
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
