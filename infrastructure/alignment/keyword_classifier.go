// Package alignment provides implementations of the
// ports.AlignmentClassifier boundary: the component that decides whether
// a committee member's discernment note reads as positively aligned.
//
// The classification method is deliberately pluggable. The keyword
// classifier is the deterministic default; an LLM-backed adapter exists
// for institutions that want a softer reading.
package alignment

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/veritasedu/conclave/internal/ports"
)

var (
	_ ports.AlignmentClassifier = (*KeywordClassifier)(nil)

	// foldCaser is a package-level Unicode case folder for performance.
	// This avoids creating a new caser for each note.
	foldCaser = cases.Fold()

	validate = validator.New()
)

// DefaultAlignedKeywords is the stock positive-alignment vocabulary.
// Notes containing any of these terms classify as aligned.
func DefaultAlignedKeywords() []string {
	return []string{
		"peace",
		"aligned",
		"alignment",
		"confirmation",
		"confirmed",
		"witness",
		"unity",
		"agreement",
		"clarity",
		"affirmed",
	}
}

// KeywordClassifier classifies a discernment note as aligned when it
// contains positive-alignment language. Matching is case-folded and
// tolerates small misspellings via Levenshtein distance, since notes are
// free text typed under time pressure.
//
// The classifier is stateless and thread-safe.
type KeywordClassifier struct {
	config KeywordConfig

	// folded holds the case-folded keyword list, precomputed at
	// construction.
	folded []string
}

// KeywordConfig defines the configuration parameters for the
// KeywordClassifier.
type KeywordConfig struct {
	// Keywords is the positive-alignment vocabulary. A note matching any
	// entry classifies as aligned.
	Keywords []string `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,min=1"`

	// MaxEditDistance is the Levenshtein distance tolerated when matching
	// a note word against a keyword. Distance matching only applies to
	// words of at least four runes; short words must match exactly.
	MaxEditDistance int `yaml:"max_edit_distance" json:"max_edit_distance" validate:"min=0,max=2"`
}

// DefaultKeywordConfig returns a KeywordConfig with the stock vocabulary
// and a single-edit misspelling tolerance.
func DefaultKeywordConfig() KeywordConfig {
	return KeywordConfig{
		Keywords:        DefaultAlignedKeywords(),
		MaxEditDistance: 1,
	}
}

// NewKeywordClassifier creates a KeywordClassifier with the specified
// configuration.
func NewKeywordClassifier(config KeywordConfig) (*KeywordClassifier, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	folded := make([]string, len(config.Keywords))
	for i, kw := range config.Keywords {
		folded[i] = foldCaser.String(kw)
	}

	return &KeywordClassifier{config: config, folded: folded}, nil
}

// ClassifyNote implements the ports.AlignmentClassifier interface.
// The note is case-folded and split into words; it classifies as aligned
// when any word matches a keyword exactly, or within the configured edit
// distance for words long enough that a near-miss is plausibly a typo.
// An empty note classifies as not aligned; callers are expected to skip
// votes without a note before counting.
func (kc *KeywordClassifier) ClassifyNote(_ context.Context, note string) (bool, error) {
	if strings.TrimSpace(note) == "" {
		return false, nil
	}

	foldedNote := foldCaser.String(note)

	// Substring pass catches multi-word keywords and inflected forms.
	for _, kw := range kc.folded {
		if strings.Contains(foldedNote, kw) {
			return true, nil
		}
	}

	if kc.config.MaxEditDistance == 0 {
		return false, nil
	}

	words := strings.FieldsFunc(foldedNote, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	for _, word := range words {
		if len([]rune(word)) < 4 {
			continue
		}
		for _, kw := range kc.folded {
			if levenshtein.ComputeDistance(word, kw) <= kc.config.MaxEditDistance {
				return true, nil
			}
		}
	}

	return false, nil
}
