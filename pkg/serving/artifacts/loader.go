package artifacts

import (
	"context"
	"fmt"

	"github.com/healthsense/predictor/pkg/ml"
	"github.com/healthsense/predictor/pkg/ml/artifact"
)

const (
	KindClassifier    = "classifier"
	KindProbabilistic = "probabilistic"
	KindTransformer   = "transformer"
)

// Classifier loads a label-only model whose input layout is columns.
func (s *Store) Classifier(ctx context.Context, src Source, columns []string) (ml.Classifier, Loaded, error) {
	doc, info, err := s.document(ctx, src, KindClassifier, columns)
	if err != nil {
		return nil, Loaded{}, err
	}
	model, err := doc.Classifier()
	if err != nil {
		return nil, Loaded{}, fmt.Errorf("building %s: %w", src.Name, err)
	}
	if err := ml.CheckFeatures(len(columns), model.NumFeatures()); err != nil {
		return nil, Loaded{}, fmt.Errorf("%s: %w", src.Name, err)
	}
	return model, info, nil
}

// Probabilistic loads a model that also reports class probabilities.
func (s *Store) Probabilistic(ctx context.Context, src Source, columns []string) (ml.ProbabilisticClassifier, Loaded, error) {
	doc, info, err := s.document(ctx, src, KindProbabilistic, columns)
	if err != nil {
		return nil, Loaded{}, err
	}
	model, err := doc.Probabilistic()
	if err != nil {
		return nil, Loaded{}, fmt.Errorf("building %s: %w", src.Name, err)
	}
	if err := ml.CheckFeatures(len(columns), model.NumFeatures()); err != nil {
		return nil, Loaded{}, fmt.Errorf("%s: %w", src.Name, err)
	}
	return model, info, nil
}

// Transformer loads a fitted scaler.
func (s *Store) Transformer(ctx context.Context, src Source, columns []string) (ml.Transformer, Loaded, error) {
	doc, info, err := s.document(ctx, src, KindTransformer, columns)
	if err != nil {
		return nil, Loaded{}, err
	}
	t, err := doc.Transformer()
	if err != nil {
		return nil, Loaded{}, fmt.Errorf("building %s: %w", src.Name, err)
	}
	if err := ml.CheckFeatures(len(columns), t.NumFeatures()); err != nil {
		return nil, Loaded{}, fmt.Errorf("%s: %w", src.Name, err)
	}
	return t, info, nil
}

func (s *Store) document(ctx context.Context, src Source, kind string, columns []string) (artifact.Document, Loaded, error) {
	data, info, err := s.Fetch(ctx, src)
	if err != nil {
		return artifact.Document{}, Loaded{}, err
	}
	doc, err := artifact.Parse(data)
	if err != nil {
		return artifact.Document{}, Loaded{}, fmt.Errorf("%s: %w", src.Name, err)
	}
	if err := doc.CheckLayout(columns); err != nil {
		return artifact.Document{}, Loaded{}, fmt.Errorf("%s: %w", src.Name, err)
	}
	info.Kind = kind
	info.Type = doc.Type
	info.Version = doc.Version
	return doc, info, nil
}
