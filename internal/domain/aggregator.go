package domain

// Aggregator defines the interface for combining component assessment
// scores into a single weighted overall score and confidence value.
// Implementations must be pure functions over their inputs: no I/O, no
// shared mutable state, safe for concurrent use.
type Aggregator interface {
	// Aggregate combines the assessment's component scores using the
	// given weight configuration.
	//
	// Returns:
	//   - *AggregateScore: overall score in [0,100], confidence in
	//     [0,100], and the per-component weighted breakdown
	//   - error: ErrInvalidWeightConfig if the weights violate an
	//     invariant, ErrIncompleteAssessment if a required component
	//     score is missing and no fallback policy is configured
	//
	// The overall score is always clamped to [0,100]; it is never
	// negative and never unbounded.
	Aggregate(input *AssessmentInput, weights WeightConfig) (*AggregateScore, error)
}
