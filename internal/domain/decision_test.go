package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecisionFromScore(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected Decision
	}{
		{name: "well above accept threshold", score: 94.75, expected: DecisionAccepted},
		{name: "accept boundary is inclusive", score: 85.0, expected: DecisionAccepted},
		{name: "just below accept boundary", score: 84.999, expected: DecisionConditional},
		{name: "conditional boundary is inclusive", score: 70.0, expected: DecisionConditional},
		{name: "just below conditional boundary", score: 69.999, expected: DecisionWaitlisted},
		{name: "waitlist boundary is inclusive", score: 60.0, expected: DecisionWaitlisted},
		{name: "just below waitlist boundary", score: 59.999, expected: DecisionRejected},
		{name: "low score rejects", score: 40.75, expected: DecisionRejected},
		{name: "zero rejects", score: 0, expected: DecisionRejected},
		{name: "perfect score accepts", score: 100, expected: DecisionAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecisionFromScore(tt.score))
		})
	}
}

func TestDecisionFromChoice(t *testing.T) {
	tests := []struct {
		name     string
		choice   VoteChoice
		expected Decision
		ok       bool
	}{
		{name: "accept", choice: ChoiceAccept, expected: DecisionAccepted, ok: true},
		{name: "reject", choice: ChoiceReject, expected: DecisionRejected, ok: true},
		{name: "waitlist", choice: ChoiceWaitlist, expected: DecisionWaitlisted, ok: true},
		{name: "conditional", choice: ChoiceConditional, expected: DecisionConditional, ok: true},
		{name: "abstain has no decision", choice: ChoiceAbstain, ok: false},
		{name: "unknown choice has no decision", choice: VoteChoice("MAYBE"), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, ok := DecisionFromChoice(tt.choice)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, decision)
			}
		})
	}
}

func TestGuidanceFor(t *testing.T) {
	// Every decision category maps to non-empty guidance.
	for _, d := range []Decision{
		DecisionAccepted,
		DecisionRejected,
		DecisionWaitlisted,
		DecisionConditional,
		DecisionNoConsensus,
	} {
		t.Run(string(d), func(t *testing.T) {
			g := GuidanceFor(d)

			assert.NotEmpty(t, g.Reasoning, "Reasoning should never be empty")
			assert.NotEmpty(t, g.NextSteps, "NextSteps should never be empty")
		})
	}

	t.Run("unknown decision falls back to no-consensus guidance", func(t *testing.T) {
		assert.Equal(t, GuidanceFor(DecisionNoConsensus), GuidanceFor(Decision("BOGUS")))
	})
}

func TestAppealEligible(t *testing.T) {
	tests := []struct {
		name       string
		consensus  bool
		confidence float64
		expected   bool
	}{
		{name: "no consensus is always appealable", consensus: false, confidence: 0.95, expected: true},
		{name: "consensus with low confidence is appealable", consensus: true, confidence: 0.79, expected: true},
		{name: "consensus at the confidence bar is final", consensus: true, confidence: 0.8, expected: false},
		{name: "consensus with high confidence is final", consensus: true, confidence: 0.95, expected: false},
		{name: "no consensus and low confidence is appealable", consensus: false, confidence: 0.1, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AppealEligible(tt.consensus, tt.confidence))
		})
	}
}
