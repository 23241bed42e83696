package ports

import (
	"context"
	"time"

	"github.com/veritasedu/conclave/internal/domain"
)

// VoteCollector gathers the committee votes for a session. Vote creation
// and storage live entirely outside the core: the engine never generates
// votes, it only tallies what the collector hands back.
// Implementations typically read from the institutional vote store and
// are responsible for not losing concurrent submissions.
type VoteCollector interface {
	// CollectVotes returns every vote recorded for the session so far.
	// The engine treats the returned slice as the complete vote set for
	// an idempotent tally.
	CollectVotes(ctx context.Context, session *domain.VotingSession) ([]domain.Vote, error)
}

// DecisionNotifier delivers a computed outcome to the applicant, for
// example through email or a portal inbox. A notification failure is
// reported to the caller but never invalidates the decision itself.
type DecisionNotifier interface {
	// NotifyApplicant sends the outcome to the applicant's channel(s).
	NotifyApplicant(ctx context.Context, outcome *domain.DecisionOutcome) error
}

// DecisionStore persists outcomes for audit and appeal. Like the
// notifier, a store failure is surfaced but does not roll back the
// computed decision.
type DecisionStore interface {
	// SaveOutcome writes the outcome record.
	SaveOutcome(ctx context.Context, outcome *domain.DecisionOutcome) error
}

// AlignmentClassifier decides whether a single discernment note reads as
// positively aligned. The classification method is deliberately a black
// box: implementations range from keyword heuristics to LLM calls.
type AlignmentClassifier interface {
	// ClassifyNote reports whether the note is aligned.
	ClassifyNote(ctx context.Context, note string) (bool, error)
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations should integrate with observability platforms
// like Prometheus or OpenTelemetry.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, useful for
	// distributions like scores and vote spreads.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// ConfigLoader defines the interface for loading engine configuration.
// Implementations could read from files, environment variables, or a
// remote configuration service.
type ConfigLoader interface {
	// Load reads configuration from the underlying source into the
	// provided struct pointer.
	//
	// Example:
	//
	//	var cfg EngineConfig
	//	err := loader.Load(ctx, &cfg)
	Load(ctx context.Context, config any) error
}
