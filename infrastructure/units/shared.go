// Package units contains concrete implementations of the ports.Unit
// interface: the score aggregation and vote tally steps of the decision
// pipeline.
package units

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Common errors returned by unit constructors and execution.
var (
	// ErrEmptyUnitName is returned when a unit name is empty.
	ErrEmptyUnitName = errors.New("unit name cannot be empty")

	// ErrNilAssessment is returned when aggregation is attempted without
	// an assessment bundle.
	ErrNilAssessment = errors.New("assessment cannot be nil")

	// ErrNilClassifier is returned when a tally unit is built without an
	// alignment classifier.
	ErrNilClassifier = errors.New("alignment classifier cannot be nil")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// clamp bounds v to the inclusive range [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
