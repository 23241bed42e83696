package domain

import (
	"math"
	"time"
)

// Component identifies one of the assessment dimensions that feed the
// automated scoring path.
type Component string

// The assessment components recognized by the engine.
const (
	ComponentSpiritual   Component = "spiritual"
	ComponentAcademic    Component = "academic"
	ComponentCharacter   Component = "character"
	ComponentInterview   Component = "interview"
	ComponentEligibility Component = "eligibility"
)

// RequiredComponents returns the components every assessment bundle must
// carry, in canonical order.
func RequiredComponents() []Component {
	return []Component{
		ComponentSpiritual,
		ComponentAcademic,
		ComponentCharacter,
		ComponentInterview,
		ComponentEligibility,
	}
}

// ComponentScore is a single normalized evaluation result tagged with the
// record it was derived from.
type ComponentScore struct {
	// Value is the normalized score in [0,100].
	Value float64 `json:"value"`

	// Source identifies the raw record the score was derived from, such as
	// an evaluator report or interview recommendation.
	Source string `json:"source,omitempty"`
}

// AssessmentInput is the per-application bundle of component scores.
// It is created by external evaluators and is immutable once submitted;
// the engine only reads it.
type AssessmentInput struct {
	// ApplicationID identifies the application the assessment belongs to.
	ApplicationID string `json:"application_id"`

	// Scores maps each assessed component to its normalized score.
	Scores map[Component]ComponentScore `json:"scores"`

	// SubmittedAt records when the bundle was finalized by the evaluators.
	SubmittedAt time.Time `json:"submitted_at"`
}

// Score returns the score value for a component and whether it is present.
func (a *AssessmentInput) Score(c Component) (float64, bool) {
	s, ok := a.Scores[c]
	return s.Value, ok
}

// MissingComponents lists the required components absent from the bundle.
// An empty result means the assessment is complete.
func (a *AssessmentInput) MissingComponents() []Component {
	var missing []Component
	for _, c := range RequiredComponents() {
		if _, ok := a.Scores[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// WeightSumTolerance is the floating-point tolerance applied when checking
// that component weights sum to 1.0.
const WeightSumTolerance = 1e-6

// ComponentWeight configures how one assessment component contributes to
// the overall score.
type ComponentWeight struct {
	// Weight is the component's share of the overall score, in [0,1].
	Weight float64 `yaml:"weight" json:"weight" validate:"min=0.0,max=1.0"`

	// PassingThreshold is the minimum component score considered passing,
	// in [0,100]. It is advisory; it is surfaced in the breakdown but does
	// not veto the weighted sum.
	PassingThreshold float64 `yaml:"passing_threshold" json:"passing_threshold" validate:"min=0.0,max=100.0"`
}

// WeightConfig maps each component to its weight and passing threshold.
// It is loaded once per decision run and never mutated mid-run.
type WeightConfig map[Component]ComponentWeight

// Validate checks the weight configuration invariants: every required
// component is present, each weight lies in [0,1], and the weights sum to
// 1.0 within WeightSumTolerance. A violation is returned as a
// *WeightConfigError wrapping ErrInvalidWeightConfig.
func (w WeightConfig) Validate() error {
	wcErr := &WeightConfigError{Weights: w}

	var sum float64
	for _, c := range RequiredComponents() {
		cw, ok := w[c]
		if !ok {
			wcErr.Missing = append(wcErr.Missing, c)
			continue
		}
		if cw.Weight < 0 || cw.Weight > 1 {
			wcErr.OutOfRange = append(wcErr.OutOfRange, c)
		}
		sum += cw.Weight
	}
	wcErr.Sum = sum

	if len(wcErr.Missing) > 0 || len(wcErr.OutOfRange) > 0 {
		return wcErr
	}
	if math.Abs(sum-1.0) > WeightSumTolerance {
		return wcErr
	}
	return nil
}

// AggregateScore is the result of combining component scores on the
// automated path.
type AggregateScore struct {
	// Overall is the weighted sum of component scores, clamped to [0,100].
	Overall float64 `json:"overall"`

	// Confidence expresses how consistent the component signals were, in
	// [0,100]. Conflicting components reduce it.
	Confidence float64 `json:"confidence"`

	// Breakdown maps each component to its weighted contribution.
	Breakdown map[Component]float64 `json:"breakdown"`

	// Spread is the gap between the highest and lowest component scores.
	Spread float64 `json:"spread"`
}
