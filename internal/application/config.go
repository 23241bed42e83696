// Package application orchestrates the decision pipeline: routing a
// request to the automated or committee path, executing the units, and
// handing the outcome to the external collaborators.
package application

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/veritasedu/conclave/infrastructure/committee"
	"github.com/veritasedu/conclave/infrastructure/units"
	"github.com/veritasedu/conclave/internal/ports"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// EngineConfig is the complete configuration surface of the decision
// engine. It is loaded once and treated as immutable for the lifetime of
// a resolver; per-run weight overrides travel through the State instead.
type EngineConfig struct {
	// Aggregator configures the automated scoring path: component
	// weights, passing thresholds, and the divergence penalty.
	Aggregator units.ScoreAggregatorConfig `yaml:"aggregator" validate:"required"`

	// Tally configures the committee path: consensus and spiritual
	// alignment thresholds.
	Tally units.VoteTallyConfig `yaml:"tally"`

	// Committee configures session planning: deadline windows and the
	// chair-selection role priority.
	Committee committee.PlannerConfig `yaml:"committee" validate:"required"`

	// Routing configures when a request escalates to committee review.
	Routing RoutingConfig `yaml:"routing" validate:"required"`
}

// RoutingConfig defines the thresholds that escalate a request from the
// automated path to committee review.
type RoutingConfig struct {
	// StrongSupport is the component score (0-100) treated as a strong
	// recommendation.
	StrongSupport float64 `yaml:"strong_support" json:"strong_support" validate:"min=0.0,max=100.0"`

	// StrongOpposition is the component score (0-100) treated as strong
	// opposition. A case carrying both signals at once is complex and
	// goes to committee.
	StrongOpposition float64 `yaml:"strong_opposition" json:"strong_opposition" validate:"min=0.0,max=100.0"`

	// HighStakesScore is the mean component score (0-100) at or above
	// which a case is high-stakes and goes to committee.
	HighStakesScore float64 `yaml:"high_stakes_score" json:"high_stakes_score" validate:"min=0.0,max=100.0"`

	// SensitivePrograms lists programs whose applications always receive
	// committee review.
	SensitivePrograms []string `yaml:"sensitive_programs,omitempty" json:"sensitive_programs,omitempty"`
}

// DefaultEngineConfig returns the institutional defaults for every
// engine component.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Aggregator: units.DefaultScoreAggregatorConfig(),
		Tally:      units.DefaultVoteTallyConfig(),
		Committee:  committee.DefaultPlannerConfig(),
		Routing: RoutingConfig{
			StrongSupport:    75,
			StrongOpposition: 40,
			HighStakesScore:  92,
		},
	}
}

// Validate checks the configuration invariants, including that the
// aggregator weights sum to 1.0 within tolerance.
func (c *EngineConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return c.Aggregator.Weights.Validate()
}

var _ ports.ConfigLoader = (*YAMLFileLoader)(nil)

// YAMLFileLoader implements ports.ConfigLoader by reading a YAML file.
// Values in the file overlay whatever defaults the target struct already
// carries.
type YAMLFileLoader struct {
	// Path is the YAML file to read.
	Path string
}

// Load implements the ports.ConfigLoader interface.
func (l *YAMLFileLoader) Load(_ context.Context, config any) error {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", l.Path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse config %s: %w", l.Path, err)
	}
	return nil
}

// LoadEngineConfig reads an EngineConfig from a YAML file, overlaying the
// file's values on the institutional defaults, and validates the result.
func LoadEngineConfig(ctx context.Context, loader ports.ConfigLoader) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if err := loader.Load(ctx, &cfg); err != nil {
		return EngineConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}
