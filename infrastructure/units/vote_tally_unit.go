package units

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/veritasedu/conclave/internal/domain"
	"github.com/veritasedu/conclave/internal/ports"
)

var (
	_ ports.Unit    = (*VoteTallyUnit)(nil)
	_ ports.Tallier = (*VoteTallyUnit)(nil)
)

// Default configuration values for the VoteTallyUnit.
const (
	// DefaultConsensusThreshold is the minimum weighted fractional support
	// an option must reach to count as an institutional decision.
	DefaultConsensusThreshold = 0.75

	// DefaultAlignmentThreshold is the minimum fraction of discernment
	// notes that must classify as aligned.
	DefaultAlignmentThreshold = 0.8
)

// VoteTallyUnit computes a weighted voting result from a committee's full
// vote set. It is the engine of the committee decision path.
//
// Tallying is a pure recomputation over its inputs: the unit holds no
// per-session state, so it is safe to re-run idempotently whenever new
// votes arrive and safe for concurrent sessions without locking.
type VoteTallyUnit struct {
	// name is the unique identifier for this unit instance.
	name string
	// config contains the validated configuration parameters.
	config VoteTallyConfig
	// classifier decides whether a discernment note reads as aligned.
	classifier ports.AlignmentClassifier
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// VoteTallyConfig defines the configuration parameters for the
// VoteTallyUnit. All fields are validated during unit creation and
// parameter unmarshaling.
type VoteTallyConfig struct {
	// ConsensusThreshold is the weighted score the winning option must
	// reach, in [0,1]. Below it the tally yields NO_CONSENSUS regardless
	// of which option is numerically highest: a narrow plurality must not
	// look like an institutional decision.
	ConsensusThreshold float64 `yaml:"consensus_threshold" json:"consensus_threshold" validate:"min=0.0,max=1.0"`

	// AlignmentThreshold is the minimum aligned fraction of classified
	// discernment notes, in [0,1]. Sessions with no notes at all pass
	// vacuously; absence of spiritual input is not itself a red flag.
	AlignmentThreshold float64 `yaml:"alignment_threshold" json:"alignment_threshold" validate:"min=0.0,max=1.0"`
}

// NewVoteTallyUnit creates a new VoteTallyUnit with the specified
// configuration and alignment classifier. The classifier is required;
// how a note is classified is deliberately outside this unit.
func NewVoteTallyUnit(name string, classifier ports.AlignmentClassifier, config VoteTallyConfig) (*VoteTallyUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}
	if classifier == nil {
		return nil, ErrNilClassifier
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &VoteTallyUnit{
		name:       name,
		config:     config,
		classifier: classifier,
		tracer:     otel.Tracer("vote-tally-unit"),
	}, nil
}

// Name returns the unique identifier for this unit instance.
func (vt *VoteTallyUnit) Name() string { return vt.name }

// Execute tallies the votes found in the state against the session's
// required quorum. It reads domain.KeyVotes and domain.KeySession and
// writes domain.KeyTally with the result.
func (vt *VoteTallyUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	ctx, span := vt.tracer.Start(ctx, "VoteTallyUnit.Execute",
		trace.WithAttributes(
			attribute.String("unit.type", "vote_tally"),
			attribute.String("unit.id", vt.name),
			attribute.Float64("config.consensus_threshold", vt.config.ConsensusThreshold),
			attribute.Float64("config.alignment_threshold", vt.config.AlignmentThreshold),
		),
	)
	defer span.End()

	start := time.Now()

	votes, ok := domain.Get(state, domain.KeyVotes)
	if !ok {
		err := fmt.Errorf("unit %s: votes not found in state", vt.name)
		span.RecordError(err)
		return state, err
	}

	session, ok := domain.Get(state, domain.KeySession)
	if !ok || session == nil {
		err := fmt.Errorf("unit %s: session not found in state", vt.name)
		span.RecordError(err)
		return state, err
	}

	result, err := vt.Tally(ctx, votes, session.RequiredQuorum)
	if err != nil {
		span.RecordError(err)
		return state, err
	}

	span.SetAttributes(
		attribute.Int64("eval.latency_ms", time.Since(start).Milliseconds()),
		attribute.Int("eval.total_votes", result.TotalVotes),
		attribute.Int("eval.substantive_votes", result.SubstantiveVotes),
		attribute.Bool("eval.consensus", result.Consensus),
		attribute.Bool("eval.quorum_met", result.QuorumMet),
		attribute.String("eval.decision", string(result.Decision)),
	)

	return domain.With(state, domain.KeyTally, result), nil
}

// Tally implements the ports.Tallier interface.
//
// Votes are partitioned into substantive votes (choice other than ABSTAIN,
// confidence at or above the floor, structurally valid) and
// abstaining/low-confidence votes, which count toward participation but
// never toward an option's score. Individually malformed votes are
// excluded rather than aborting the tally, provided at least one valid
// vote exists.
//
// For each option, weighted score = sum(weight x confidence) over the
// option's substantive votes, divided by sum(weight) over all substantive
// votes. The confidence scaling means option scores need not sum to 1.
//
// The winning option is the argmax over option scores; a tie resolves to
// the earlier option in canonical choice order so re-tallies stay
// deterministic. Consensus requires the winning score to reach the
// configured threshold; otherwise the decision is NO_CONSENSUS.
//
// A quorum miss is reported in the result, never as an error.
func (vt *VoteTallyUnit) Tally(ctx context.Context, votes []domain.Vote, quorum int) (*domain.VotingResult, error) {
	if len(votes) == 0 {
		return nil, domain.ErrEmptyVoteSet
	}

	result := &domain.VotingResult{
		OptionScores: make(map[domain.VoteChoice]float64, 4),
		TotalVotes:   len(votes),
	}

	var (
		totalWeight   float64
		optionSupport = make(map[domain.VoteChoice]float64, 4)
	)

	for _, v := range votes {
		if !v.WellFormed() {
			result.InvalidVotes++
			continue
		}
		if !v.Substantive() {
			result.AbstainVotes++
			continue
		}

		result.SubstantiveVotes++
		totalWeight += v.Weight
		optionSupport[v.Choice] += v.Weight * v.Confidence
	}

	if result.InvalidVotes == len(votes) {
		return nil, domain.ErrNoValidVotes
	}

	result.QuorumMet = result.SubstantiveVotes >= quorum

	if totalWeight > 0 {
		for _, choice := range domain.SubstantiveChoices() {
			support, ok := optionSupport[choice]
			if !ok {
				continue
			}
			score := support / totalWeight
			result.OptionScores[choice] = score
			if result.Winner == "" || score > result.WinningScore {
				result.Winner = choice
				result.WinningScore = score
			}
		}
	}

	result.Consensus = result.Winner != "" && result.WinningScore >= vt.config.ConsensusThreshold
	result.Decision = domain.DecisionNoConsensus
	if result.Consensus {
		if mapped, ok := domain.DecisionFromChoice(result.Winner); ok {
			result.Decision = mapped
		}
	}

	aligned, classified, alignedCount, err := vt.checkAlignment(ctx, votes)
	if err != nil {
		return nil, err
	}
	result.SpiritualAlignment = aligned
	result.NotesClassified = classified
	result.NotesAligned = alignedCount

	return result, nil
}

// checkAlignment classifies the discernment notes attached to well-formed
// votes and compares the aligned fraction to the configured threshold.
// With no notes at all the check passes vacuously.
func (vt *VoteTallyUnit) checkAlignment(ctx context.Context, votes []domain.Vote) (bool, int, int, error) {
	var classified, aligned int

	for _, v := range votes {
		if !v.WellFormed() || v.DiscernmentNote == "" {
			continue
		}

		ok, err := vt.classifier.ClassifyNote(ctx, v.DiscernmentNote)
		if err != nil {
			return false, 0, 0, fmt.Errorf("unit %s: classify discernment note from %s: %w",
				vt.name, v.VoterID, err)
		}

		classified++
		if ok {
			aligned++
		}
	}

	if classified == 0 {
		return true, 0, 0, nil
	}

	fraction := float64(aligned) / float64(classified)
	return fraction >= vt.config.AlignmentThreshold, classified, aligned, nil
}

// Validate checks if the unit is properly configured and ready for
// execution.
func (vt *VoteTallyUnit) Validate() error {
	if vt.classifier == nil {
		return ErrNilClassifier
	}
	if err := validate.Struct(vt.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// UnmarshalParameters deserializes YAML configuration parameters into the
// unit's configuration struct with strict validation.
func (vt *VoteTallyUnit) UnmarshalParameters(params yaml.Node) error {
	var config VoteTallyConfig

	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}

	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}

	vt.config = config
	return nil
}

// DefaultVoteTallyConfig returns a VoteTallyConfig with the institutional
// consensus and alignment thresholds.
func DefaultVoteTallyConfig() VoteTallyConfig {
	return VoteTallyConfig{
		ConsensusThreshold: DefaultConsensusThreshold,
		AlignmentThreshold: DefaultAlignmentThreshold,
	}
}

// NewVoteTallyFromConfig creates a VoteTallyUnit from a configuration
// map. This is the boundary adapter for YAML/JSON configuration.
func NewVoteTallyFromConfig(id string, config map[string]any, classifier ports.AlignmentClassifier) (*VoteTallyUnit, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	// Start with defaults, then overlay user config.
	cfg := DefaultVoteTallyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewVoteTallyUnit(id, classifier, cfg)
}
