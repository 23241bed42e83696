package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVoteWellFormed(t *testing.T) {
	base := Vote{
		VoterID:    "voter-1",
		Weight:     1.0,
		Choice:     ChoiceAccept,
		Confidence: 0.9,
		CastAt:     time.Now(),
	}

	tests := []struct {
		name     string
		mutate   func(*Vote)
		expected bool
	}{
		{name: "complete vote", mutate: func(*Vote) {}, expected: true},
		{name: "abstention is well-formed", mutate: func(v *Vote) { v.Choice = ChoiceAbstain }, expected: true},
		{name: "missing voter ID", mutate: func(v *Vote) { v.VoterID = "" }, expected: false},
		{name: "zero weight", mutate: func(v *Vote) { v.Weight = 0 }, expected: false},
		{name: "negative weight", mutate: func(v *Vote) { v.Weight = -1 }, expected: false},
		{name: "confidence above one", mutate: func(v *Vote) { v.Confidence = 1.1 }, expected: false},
		{name: "negative confidence", mutate: func(v *Vote) { v.Confidence = -0.1 }, expected: false},
		{name: "unknown choice", mutate: func(v *Vote) { v.Choice = "MAYBE" }, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := base
			tt.mutate(&v)
			assert.Equal(t, tt.expected, v.WellFormed())
		})
	}
}

func TestVoteSubstantive(t *testing.T) {
	base := Vote{
		VoterID:    "voter-1",
		Weight:     1.0,
		Choice:     ChoiceReject,
		Confidence: 0.7,
	}

	tests := []struct {
		name     string
		mutate   func(*Vote)
		expected bool
	}{
		{name: "substantive vote", mutate: func(*Vote) {}, expected: true},
		{name: "confidence floor is inclusive", mutate: func(v *Vote) { v.Confidence = MinSubstantiveConfidence }, expected: true},
		{name: "abstention is not substantive", mutate: func(v *Vote) { v.Choice = ChoiceAbstain }, expected: false},
		{name: "confidence below floor counts as abstention", mutate: func(v *Vote) { v.Confidence = 0.49 }, expected: false},
		{name: "malformed vote is not substantive", mutate: func(v *Vote) { v.Weight = 0 }, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := base
			tt.mutate(&v)
			assert.Equal(t, tt.expected, v.Substantive())
		})
	}
}

func TestSubstantiveChoicesExcludeAbstain(t *testing.T) {
	choices := SubstantiveChoices()

	assert.Len(t, choices, 4)
	assert.NotContains(t, choices, ChoiceAbstain)
	assert.Equal(t, ChoiceAccept, choices[0], "canonical order starts with ACCEPT")
}
