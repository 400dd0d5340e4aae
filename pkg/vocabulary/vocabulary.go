// Package vocabulary holds the ordered symptom list that fixes the layout of
// every encoded symptom vector. Position i of a vector always refers to
// Names()[i]; the order is shared with the fitted models and must not change.
package vocabulary

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmpty = errors.New("symptom vocabulary empty")

// File is the on-disk YAML layout.
type File struct {
	Version  string   `yaml:"version" json:"version"`
	Symptoms []string `yaml:"symptoms" json:"symptoms"`
}

type Vocabulary struct {
	version string
	names   []string
	index   map[string]int
}

func New(version string, names []string) (*Vocabulary, error) {
	if len(names) == 0 {
		return nil, ErrEmpty
	}
	index := make(map[string]int, len(names))
	ordered := make([]string, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("symptom at position %d is blank", i)
		}
		if prev, ok := index[name]; ok {
			return nil, fmt.Errorf("symptom %q duplicated at positions %d and %d", name, prev, i)
		}
		index[name] = i
		ordered[i] = name
	}
	return &Vocabulary{version: version, names: ordered, index: index}, nil
}

// Load reads a vocabulary file, falling back to Default when path is empty.
func Load(path string) (*Vocabulary, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}
	return New(file.Version, file.Symptoms)
}

func (v *Vocabulary) Len() int {
	return len(v.names)
}

// Names returns a copy of the ordered symptom names.
func (v *Vocabulary) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

func (v *Vocabulary) Index(name string) (int, bool) {
	i, ok := v.index[name]
	return i, ok
}

func (v *Vocabulary) Version() string {
	return v.version
}

// Fingerprint is a stable hash of the ordered names, suitable for comparing
// the layout a model was fitted with against the one being served.
func (v *Vocabulary) Fingerprint() string {
	h := sha256.New()
	for _, name := range v.names {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MatchesLayout reports whether names equals the vocabulary order exactly.
func (v *Vocabulary) MatchesLayout(names []string) error {
	if len(names) != len(v.names) {
		return fmt.Errorf("layout has %d names, vocabulary has %d", len(names), len(v.names))
	}
	for i, name := range names {
		if name != v.names[i] {
			return fmt.Errorf("layout position %d is %q, vocabulary has %q", i, name, v.names[i])
		}
	}
	return nil
}
