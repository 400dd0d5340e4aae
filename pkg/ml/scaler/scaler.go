package scaler

import (
	"errors"
	"fmt"

	"github.com/healthsense/predictor/pkg/ml"
)

// Standard applies (x - mean) / scale per column. A zero scale is treated as
// 1, matching how constant columns are fitted.
type Standard struct {
	mean  []float64
	scale []float64
}

func NewStandard(mean, scale []float64) (*Standard, error) {
	if len(mean) == 0 {
		return nil, errors.New("scaler has no columns")
	}
	if scale == nil {
		scale = make([]float64, len(mean))
		for i := range scale {
			scale[i] = 1
		}
	}
	if len(scale) != len(mean) {
		return nil, fmt.Errorf("scaler has %d means and %d scales", len(mean), len(scale))
	}
	return &Standard{mean: mean, scale: scale}, nil
}

func (s *Standard) NumFeatures() int {
	return len(s.mean)
}

func (s *Standard) Transform(row []float64) ([]float64, error) {
	if err := ml.CheckFeatures(len(s.mean), len(row)); err != nil {
		return nil, err
	}
	out := make([]float64, len(row))
	for i, v := range row {
		scale := s.scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.mean[i]) / scale
	}
	return out, nil
}

// MinMax applies x * scale + min per column.
type MinMax struct {
	min   []float64
	scale []float64
}

func NewMinMax(mins, scale []float64) (*MinMax, error) {
	if len(mins) == 0 {
		return nil, errors.New("scaler has no columns")
	}
	if len(scale) != len(mins) {
		return nil, fmt.Errorf("scaler has %d mins and %d scales", len(mins), len(scale))
	}
	return &MinMax{min: mins, scale: scale}, nil
}

func (m *MinMax) NumFeatures() int {
	return len(m.min)
}

func (m *MinMax) Transform(row []float64) ([]float64, error) {
	if err := ml.CheckFeatures(len(m.min), len(row)); err != nil {
		return nil, err
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = v*m.scale[i] + m.min[i]
	}
	return out, nil
}
