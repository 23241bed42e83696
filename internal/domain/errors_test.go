package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightConfigError(t *testing.T) {
	tests := []struct {
		name    string
		err     *WeightConfigError
		wantMsg string
	}{
		{
			name:    "bad sum only",
			err:     &WeightConfigError{Sum: 0.95},
			wantMsg: "invalid weight configuration: weights sum to 0.950000000, want 1.0 within 1e-06",
		},
		{
			name:    "missing components",
			err:     &WeightConfigError{Sum: 0.8, Missing: []Component{ComponentInterview}},
			wantMsg: "invalid weight configuration: missing components [interview]",
		},
		{
			name:    "out of range components",
			err:     &WeightConfigError{Sum: 1.0, OutOfRange: []Component{ComponentAcademic}},
			wantMsg: "invalid weight configuration: weights out of [0,1] for [academic]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.True(t, errors.Is(tt.err, ErrInvalidWeightConfig), "should unwrap to sentinel")
		})
	}
}

func TestAssessmentError(t *testing.T) {
	err := &AssessmentError{
		ApplicationID: "app-42",
		Missing:       []Component{ComponentSpiritual, ComponentCharacter},
	}

	assert.Equal(t,
		"incomplete assessment: application app-42 missing components [spiritual character]",
		err.Error())
	assert.True(t, errors.Is(err, ErrIncompleteAssessment), "should unwrap to sentinel")
}

func TestTransitionError(t *testing.T) {
	err := &TransitionError{SessionID: "session-7", From: SessionCompleted, To: SessionActive}

	assert.Equal(t,
		"invalid session transition: session session-7 cannot move COMPLETED -> ACTIVE",
		err.Error())
	assert.True(t, errors.Is(err, ErrInvalidTransition), "should unwrap to sentinel")
}

func TestStateErrorUnwrapsUnderlying(t *testing.T) {
	err := &StateError{Key: "votes", Operation: "Get", Err: ErrKeyNotFound}

	assert.Contains(t, err.Error(), "votes")
	assert.Contains(t, err.Error(), "Get")
	assert.True(t, errors.Is(err, ErrKeyNotFound), "should unwrap to underlying error")
}
