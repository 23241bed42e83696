package alignment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeywordClassifier(t *testing.T) {
	tests := []struct {
		name          string
		config        KeywordConfig
		expectedError string
	}{
		{
			name:   "default configuration",
			config: DefaultKeywordConfig(),
		},
		{
			name:          "empty keyword list rejected",
			config:        KeywordConfig{Keywords: nil, MaxEditDistance: 1},
			expectedError: "configuration validation failed",
		},
		{
			name:          "edit distance above two rejected",
			config:        KeywordConfig{Keywords: []string{"peace"}, MaxEditDistance: 3},
			expectedError: "configuration validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeywordClassifier(tt.config)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestKeywordClassifier_ClassifyNote(t *testing.T) {
	classifier, err := NewKeywordClassifier(DefaultKeywordConfig())
	require.NoError(t, err)

	tests := []struct {
		name     string
		note     string
		expected bool
	}{
		{name: "exact keyword match", note: "I feel a deep peace about this candidate", expected: true},
		{name: "case folded match", note: "A REAL SENSE OF PEACE here", expected: true},
		{name: "inflected form via substring", note: "we are in full agreement", expected: true},
		{name: "misspelling within one edit", note: "a strong sense of peice about her", expected: true},
		{name: "keyword inside larger word", note: "their peacefulness was evident", expected: true},
		{name: "no alignment language", note: "strong application but I remain uneasy", expected: false},
		{name: "empty note is not aligned", note: "", expected: false},
		{name: "whitespace note is not aligned", note: "   \t\n", expected: false},
		{name: "short words never fuzzy-match", note: "pce", expected: false},
		{name: "two edits away is not a match", note: "a sense of paece-e", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aligned, err := classifier.ClassifyNote(context.Background(), tt.note)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, aligned)
		})
	}
}

func TestKeywordClassifier_ExactMatchingOnly(t *testing.T) {
	classifier, err := NewKeywordClassifier(KeywordConfig{
		Keywords:        []string{"peace"},
		MaxEditDistance: 0,
	})
	require.NoError(t, err)

	aligned, err := classifier.ClassifyNote(context.Background(), "a sense of peice")
	require.NoError(t, err)
	assert.False(t, aligned, "misspellings must not match with zero edit distance")

	aligned, err = classifier.ClassifyNote(context.Background(), "a sense of peace")
	require.NoError(t, err)
	assert.True(t, aligned)
}

func TestKeywordClassifier_CustomVocabulary(t *testing.T) {
	classifier, err := NewKeywordClassifier(KeywordConfig{
		Keywords:        []string{"shalom"},
		MaxEditDistance: 1,
	})
	require.NoError(t, err)

	aligned, err := classifier.ClassifyNote(context.Background(), "a deep shalom about this one")
	require.NoError(t, err)
	assert.True(t, aligned)

	aligned, err = classifier.ClassifyNote(context.Background(), "I feel peace about this one")
	require.NoError(t, err)
	assert.False(t, aligned, "stock vocabulary must not apply when overridden")
}
