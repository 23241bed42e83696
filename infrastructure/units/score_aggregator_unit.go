package units

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/veritasedu/conclave/internal/domain"
	"github.com/veritasedu/conclave/internal/ports"
)

var (
	_ ports.Unit        = (*ScoreAggregatorUnit)(nil)
	_ domain.Aggregator = (*ScoreAggregatorUnit)(nil)
)

// Default configuration values for the ScoreAggregatorUnit.
const (
	// DefaultDivergenceThreshold is the component score spread above which
	// confidence takes an additional penalty.
	DefaultDivergenceThreshold = 25.0
)

// ScoreAggregatorUnit combines an application's component scores into a
// single weighted overall score and confidence value. It is the engine of
// the automated decision path.
//
// Aggregation is a pure function over its inputs: the unit is stateless
// and thread-safe for concurrent execution, and the overall score is
// always clamped to [0,100].
type ScoreAggregatorUnit struct {
	// name is the unique identifier for this unit instance.
	name string
	// config contains the validated configuration parameters.
	config ScoreAggregatorConfig
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// ScoreAggregatorConfig defines the configuration parameters for the
// ScoreAggregatorUnit. All fields are validated during unit creation and
// parameter unmarshaling.
type ScoreAggregatorConfig struct {
	// Weights maps each assessment component to its weight and passing
	// threshold. Weights must sum to 1.0 within domain.WeightSumTolerance.
	Weights domain.WeightConfig `yaml:"weights" json:"weights" validate:"required"`

	// DivergenceThreshold is the component score spread (0-100) above
	// which confidence is reduced further. Conflicting signals must not
	// produce false certainty.
	DivergenceThreshold float64 `yaml:"divergence_threshold" json:"divergence_threshold" validate:"min=0.0,max=100.0"`

	// DefaultScores is the optional fallback policy for missing component
	// scores. When a required component is absent and no default is
	// configured for it, aggregation fails with ErrIncompleteAssessment.
	DefaultScores map[domain.Component]float64 `yaml:"default_scores,omitempty" json:"default_scores,omitempty" validate:"omitempty,dive,min=0.0,max=100.0"`
}

// NewScoreAggregatorUnit creates a new ScoreAggregatorUnit with the
// specified configuration. The weight configuration is validated eagerly
// so an invalid run is rejected before any scoring happens.
func NewScoreAggregatorUnit(name string, config ScoreAggregatorConfig) (*ScoreAggregatorUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := config.Weights.Validate(); err != nil {
		return nil, err
	}

	return &ScoreAggregatorUnit{
		name:   name,
		config: config,
		tracer: otel.Tracer("score-aggregator-unit"),
	}, nil
}

// Name returns the unique identifier for this unit instance.
func (sa *ScoreAggregatorUnit) Name() string { return sa.name }

// Execute aggregates the assessment found in the state using the run's
// weight configuration. It reads domain.KeyAssessment (and
// domain.KeyWeights when a run-specific weight set was staged) and writes
// domain.KeyAggregate with the result.
func (sa *ScoreAggregatorUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	_, span := sa.tracer.Start(ctx, "ScoreAggregatorUnit.Execute",
		trace.WithAttributes(
			attribute.String("unit.type", "score_aggregator"),
			attribute.String("unit.id", sa.name),
			attribute.Float64("config.divergence_threshold", sa.config.DivergenceThreshold),
		),
	)
	defer span.End()

	start := time.Now()

	assessment, ok := domain.Get(state, domain.KeyAssessment)
	if !ok || assessment == nil {
		err := fmt.Errorf("unit %s: assessment not found in state", sa.name)
		span.RecordError(err)
		return state, err
	}

	weights := sa.config.Weights
	if staged, ok := domain.Get(state, domain.KeyWeights); ok && staged != nil {
		weights = staged
	}

	aggregate, err := sa.Aggregate(assessment, weights)
	if err != nil {
		span.RecordError(err)
		return state, err
	}

	span.SetAttributes(
		attribute.Int64("eval.latency_ms", time.Since(start).Milliseconds()),
		attribute.Float64("eval.overall_score", aggregate.Overall),
		attribute.Float64("eval.confidence", aggregate.Confidence),
		attribute.Float64("eval.spread", aggregate.Spread),
	)

	return domain.With(state, domain.KeyAggregate, aggregate), nil
}

// Aggregate implements the domain.Aggregator interface. Each component
// score is multiplied by its configured weight and summed; the result is
// clamped to [0,100].
//
// Confidence starts from the consistency of the component signals: it
// falls linearly with the spread between the highest and lowest component
// scores, and takes an additional penalty for every point of spread above
// the divergence threshold.
//
// Errors:
//   - domain.ErrInvalidWeightConfig when weights do not sum to 1.0 within
//     tolerance or a component weight is missing or out of range
//   - domain.ErrIncompleteAssessment when a required component score is
//     absent and no default is configured for it; the error names the
//     missing components so the caller can request re-submission
func (sa *ScoreAggregatorUnit) Aggregate(
	input *domain.AssessmentInput,
	weights domain.WeightConfig,
) (*domain.AggregateScore, error) {
	if input == nil {
		return nil, ErrNilAssessment
	}

	if err := weights.Validate(); err != nil {
		return nil, err
	}

	var (
		overall  float64
		minScore = math.Inf(1)
		maxScore = math.Inf(-1)
		missing  []domain.Component
	)
	breakdown := make(map[domain.Component]float64, len(weights))

	for _, c := range domain.RequiredComponents() {
		score, ok := input.Score(c)
		if !ok {
			def, has := sa.config.DefaultScores[c]
			if !has {
				missing = append(missing, c)
				continue
			}
			score = def
		}

		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, fmt.Errorf("invalid %s score: %f", c, score)
		}

		// Raw inputs are contractually 0-100; clamp defensively so a bad
		// record cannot push the overall score out of range.
		score = clamp(score, 0, 100)

		contribution := score * weights[c].Weight
		breakdown[c] = contribution
		overall += contribution

		if score < minScore {
			minScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}

	if len(missing) > 0 {
		return nil, &domain.AssessmentError{
			ApplicationID: input.ApplicationID,
			Missing:       missing,
		}
	}

	spread := maxScore - minScore
	confidence := 100 - spread/2
	if spread > sa.config.DivergenceThreshold {
		confidence -= spread - sa.config.DivergenceThreshold
	}

	return &domain.AggregateScore{
		Overall:    clamp(overall, 0, 100),
		Confidence: clamp(confidence, 0, 100),
		Breakdown:  breakdown,
		Spread:     spread,
	}, nil
}

// Validate checks if the unit is properly configured and ready for
// execution.
func (sa *ScoreAggregatorUnit) Validate() error {
	if err := validate.Struct(sa.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return sa.config.Weights.Validate()
}

// UnmarshalParameters deserializes YAML configuration parameters into the
// unit's configuration struct with strict validation, so configuration
// typos are not silently ignored.
func (sa *ScoreAggregatorUnit) UnmarshalParameters(params yaml.Node) error {
	var config ScoreAggregatorConfig

	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}

	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	if err := config.Weights.Validate(); err != nil {
		return err
	}

	sa.config = config
	return nil
}

// DefaultScoreAggregatorConfig returns a ScoreAggregatorConfig carrying
// the institutional default weights and divergence threshold.
func DefaultScoreAggregatorConfig() ScoreAggregatorConfig {
	return ScoreAggregatorConfig{
		Weights: domain.WeightConfig{
			domain.ComponentSpiritual:   {Weight: 0.30, PassingThreshold: 60},
			domain.ComponentAcademic:    {Weight: 0.25, PassingThreshold: 60},
			domain.ComponentCharacter:   {Weight: 0.15, PassingThreshold: 60},
			domain.ComponentInterview:   {Weight: 0.20, PassingThreshold: 60},
			domain.ComponentEligibility: {Weight: 0.10, PassingThreshold: 60},
		},
		DivergenceThreshold: DefaultDivergenceThreshold,
	}
}

// NewScoreAggregatorFromConfig creates a ScoreAggregatorUnit from a
// configuration map. This is the boundary adapter for YAML/JSON
// configuration.
func NewScoreAggregatorFromConfig(id string, config map[string]any) (*ScoreAggregatorUnit, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	// Start with defaults, then overlay user config.
	cfg := DefaultScoreAggregatorConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewScoreAggregatorUnit(id, cfg)
}
