package features

import "github.com/healthsense/predictor/pkg/vocabulary"

// SymptomEncoder turns a selection of symptom names into the binary layout
// defined by a vocabulary.
type SymptomEncoder struct {
	vocab *vocabulary.Vocabulary
}

func NewSymptomEncoder(vocab *vocabulary.Vocabulary) *SymptomEncoder {
	return &SymptomEncoder{vocab: vocab}
}

func (e *SymptomEncoder) Vocabulary() *vocabulary.Vocabulary {
	return e.vocab
}

// Encode never fails. Names outside the vocabulary are ignored and repeated
// names have no further effect.
func (e *SymptomEncoder) Encode(selection []string) []int {
	vector := make([]int, e.vocab.Len())
	for _, name := range selection {
		if i, ok := e.vocab.Index(name); ok {
			vector[i] = 1
		}
	}
	return vector
}

// Unknown lists the selected names the vocabulary does not contain.
func (e *SymptomEncoder) Unknown(selection []string) []string {
	var out []string
	for _, name := range selection {
		if _, ok := e.vocab.Index(name); !ok {
			out = append(out, name)
		}
	}
	return out
}

// Floats widens a binary vector for model input.
func Floats(vector []int) []float64 {
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = float64(v)
	}
	return out
}
