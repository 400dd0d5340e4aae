// Package forest evaluates fitted random forests stored as flattened trees.
package forest

import (
	"errors"
	"fmt"

	"github.com/healthsense/predictor/pkg/ml"
)

// Leaf marks a node without children.
const Leaf = -1

// Node is one entry of a flattened tree. Samples with x[Feature] <= Threshold
// go to Left, the rest to Right. Value holds per-class weights at leaves.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

type Forest struct {
	classes  []string
	trees    []Tree
	features int
}

func New(classes []string, features int, trees []Tree) (*Forest, error) {
	if len(classes) == 0 {
		return nil, errors.New("forest has no classes")
	}
	if len(trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	if features <= 0 {
		return nil, errors.New("forest feature count must be positive")
	}
	for i, tree := range trees {
		if err := tree.check(len(classes), features); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &Forest{classes: classes, trees: trees, features: features}, nil
}

func (f *Forest) Classes() []string {
	return f.classes
}

func (f *Forest) NumFeatures() int {
	return f.features
}

// PredictProba averages the normalized leaf distribution of every tree.
func (f *Forest) PredictProba(sample []float64) ([]float64, error) {
	if err := ml.CheckFeatures(f.features, len(sample)); err != nil {
		return nil, err
	}
	proba := make([]float64, len(f.classes))
	for _, tree := range f.trees {
		leaf := tree.leaf(sample)
		var total float64
		for _, w := range leaf.Value {
			total += w
		}
		if total == 0 {
			continue
		}
		for c, w := range leaf.Value {
			proba[c] += w / total
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.trees))
	}
	return proba, nil
}

func (f *Forest) Predict(sample []float64) (string, error) {
	proba, err := f.PredictProba(sample)
	if err != nil {
		return "", err
	}
	return f.classes[ml.Argmax(proba)], nil
}

func (t Tree) leaf(sample []float64) Node {
	node := t.Nodes[0]
	for node.Left != Leaf {
		if sample[node.Feature] <= node.Threshold {
			node = t.Nodes[node.Left]
		} else {
			node = t.Nodes[node.Right]
		}
	}
	return node
}

// check validates structure once so evaluation can index without guards.
// Children must point forward, which also rules out cycles.
func (t Tree) check(classes, features int) error {
	if len(t.Nodes) == 0 {
		return errors.New("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Left == Leaf || n.Right == Leaf {
			if n.Left != n.Right {
				return fmt.Errorf("node %d has a single child", i)
			}
			if len(n.Value) != classes {
				return fmt.Errorf("leaf %d has %d values for %d classes", i, len(n.Value), classes)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d splits on feature %d of %d", i, n.Feature, features)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
	}
	return nil
}
