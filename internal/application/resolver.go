package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/veritasedu/conclave/infrastructure/committee"
	"github.com/veritasedu/conclave/infrastructure/units"
	"github.com/veritasedu/conclave/internal/domain"
	"github.com/veritasedu/conclave/internal/ports"
)

// ResolveRequest is one application's decision request. Each request is
// processed independently; a malformed request fails alone and never
// corrupts other in-flight requests.
type ResolveRequest struct {
	// RequestID correlates traces and outcomes; one is generated when
	// empty.
	RequestID string

	// ApplicationID identifies the application under review. Required.
	ApplicationID string

	// Assessment is the externally computed component score bundle.
	// Required on every request; committee members consult it even when
	// the automated path never scores it.
	Assessment *domain.AssessmentInput

	// Program is the program applied to, matched against the sensitive
	// program list during routing.
	Program string

	// RequiresCommittee forces committee review regardless of routing.
	RequiresCommittee bool

	// IsAppeal marks the request as an appeal; appeals always go to
	// committee.
	IsAppeal bool

	// Expedited selects the shorter committee voting window.
	Expedited bool

	// Candidates is the committee member pool for committee-path
	// requests.
	Candidates []domain.CommitteeMember
}

// HandoffError reports collaborator failures that happened after the
// decision was computed. The outcome it carries remains authoritative;
// callers decide whether to re-deliver or re-persist.
type HandoffError struct {
	// Outcome is the computed, authoritative decision.
	Outcome *domain.DecisionOutcome

	// Errs holds the store and notifier failures, in occurrence order.
	Errs []error
}

// Error implements the error interface for HandoffError.
func (e *HandoffError) Error() string {
	return fmt.Sprintf("decision computed but handoff failed: %v", errors.Join(e.Errs...))
}

// Unwrap returns the joined collaborator errors.
func (e *HandoffError) Unwrap() error { return errors.Join(e.Errs...) }

// Dependencies bundles the external collaborators a resolver needs.
// Collector is required only when committee-path requests are possible;
// Metrics, Notifier, and Store may be nil, in which case the
// corresponding handoff is skipped.
type Dependencies struct {
	// Classifier labels discernment notes for the alignment check.
	// Required.
	Classifier ports.AlignmentClassifier

	// Collector gathers committee votes for a session.
	Collector ports.VoteCollector

	// Notifier delivers outcomes to applicants.
	Notifier ports.DecisionNotifier

	// Store persists outcomes for audit and appeal.
	Store ports.DecisionStore

	// Metrics records operational metrics.
	Metrics ports.MetricsCollector
}

// DecisionResolver is the top-level orchestrator. It routes each request
// to the automated or committee path, runs the corresponding units, maps
// the result onto the shared decision categories, and hands the outcome
// to the external notifier and store.
//
// The resolver holds only immutable configuration, so concurrent Resolve
// calls need no locking.
type DecisionResolver struct {
	aggregator *units.ScoreAggregatorUnit
	tally      *units.VoteTallyUnit
	planner    *committee.Planner
	routing    RoutingConfig

	collector ports.VoteCollector
	notifier  ports.DecisionNotifier
	store     ports.DecisionStore
	metrics   ports.MetricsCollector

	tracer trace.Tracer

	// now is the clock used for session planning and outcome stamping.
	now func() time.Time
}

// NewDecisionResolver creates a resolver from a validated engine
// configuration and its collaborators. The weight configuration is
// checked here, before any request is accepted: an invalid weight set
// rejects the whole decision run.
func NewDecisionResolver(cfg EngineConfig, deps Dependencies) (*DecisionResolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Classifier == nil {
		return nil, fmt.Errorf("alignment classifier is required")
	}

	aggregator, err := units.NewScoreAggregatorUnit("score_aggregator", cfg.Aggregator)
	if err != nil {
		return nil, fmt.Errorf("build aggregator: %w", err)
	}

	tally, err := units.NewVoteTallyUnit("vote_tally", deps.Classifier, cfg.Tally)
	if err != nil {
		return nil, fmt.Errorf("build tally: %w", err)
	}

	planner, err := committee.NewPlanner(cfg.Committee)
	if err != nil {
		return nil, fmt.Errorf("build planner: %w", err)
	}

	return &DecisionResolver{
		aggregator: aggregator,
		tally:      tally,
		planner:    planner,
		routing:    cfg.Routing,
		collector:  deps.Collector,
		notifier:   deps.Notifier,
		store:      deps.Store,
		metrics:    deps.Metrics,
		tracer:     otel.Tracer("decision-resolver"),
		now:        time.Now,
	}, nil
}

// Resolve turns one decision request into a DecisionOutcome.
//
// Routing is evaluated in order, first match wins: an explicit committee
// requirement or appeal, then case complexity, then high stakes, and
// otherwise the automated path. Both paths produce the same outcome
// shape with reasoning and next steps from the shared category lookup.
//
// Once the decision is computed it is authoritative: store and notifier
// failures are returned as a *HandoffError carrying the outcome, never
// by discarding it. All other errors mean no decision was reached.
func (r *DecisionResolver) Resolve(ctx context.Context, req ResolveRequest) (*domain.DecisionOutcome, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	ctx, span := r.tracer.Start(ctx, "DecisionResolver.Resolve",
		trace.WithAttributes(
			attribute.String("request.id", req.RequestID),
			attribute.String("request.application_id", req.ApplicationID),
			attribute.Bool("request.is_appeal", req.IsAppeal),
		),
	)
	defer span.End()

	start := r.now()

	if err := r.validateRequest(req); err != nil {
		span.RecordError(err)
		r.countOperation("resolve", "invalid_request", "unknown")
		return nil, err
	}

	path, reason := r.route(req)
	span.SetAttributes(
		attribute.String("request.path", string(path)),
		attribute.String("request.routing_reason", reason),
	)

	state := domain.NewState().WithRequestContext(domain.RequestContext{
		RequestID:     req.RequestID,
		ApplicationID: req.ApplicationID,
		Path:          path,
	})

	var (
		outcome *domain.DecisionOutcome
		err     error
	)
	switch path {
	case domain.PathCommittee:
		outcome, err = r.resolveByCommittee(ctx, req, state)
	default:
		outcome, err = r.resolveAutomated(ctx, req, state)
	}
	if err != nil {
		span.RecordError(err)
		r.countOperation("resolve", "error", string(path))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("outcome.decision", string(outcome.Decision)),
		attribute.Float64("outcome.overall_score", outcome.OverallScore),
		attribute.Float64("outcome.confidence", outcome.Confidence),
		attribute.Bool("outcome.appeal_eligible", outcome.AppealEligible),
	)
	r.recordOutcome(outcome, r.now().Sub(start))

	if handoffErrs := r.handoff(ctx, outcome); len(handoffErrs) > 0 {
		for _, herr := range handoffErrs {
			span.RecordError(herr)
		}
		return outcome, &HandoffError{Outcome: outcome, Errs: handoffErrs}
	}

	return outcome, nil
}

// validateRequest rejects requests the engine cannot decide at all.
// A missing assessment bundle is surfaced as an AssessmentError naming
// every required component so the caller can request re-submission.
func (r *DecisionResolver) validateRequest(req ResolveRequest) error {
	if req.ApplicationID == "" {
		return fmt.Errorf("application ID is required")
	}
	if req.Assessment == nil {
		return &domain.AssessmentError{
			ApplicationID: req.ApplicationID,
			Missing:       domain.RequiredComponents(),
		}
	}
	return nil
}

// route applies the routing rules in order and returns the chosen path
// together with the matched rule, for tracing.
func (r *DecisionResolver) route(req ResolveRequest) (domain.ReviewPath, string) {
	if req.RequiresCommittee {
		return domain.PathCommittee, "explicit_committee"
	}
	if req.IsAppeal {
		return domain.PathCommittee, "appeal"
	}
	if r.isComplex(req.Assessment) {
		return domain.PathCommittee, "conflicting_signals"
	}
	if r.isHighStakes(req) {
		return domain.PathCommittee, "high_stakes"
	}
	return domain.PathAutomated, "automated"
}

// isComplex reports whether the assessment carries conflicting signals:
// at least one component strongly recommends while another strongly
// opposes.
func (r *DecisionResolver) isComplex(assessment *domain.AssessmentInput) bool {
	var hasSupport, hasOpposition bool
	for _, s := range assessment.Scores {
		if s.Value >= r.routing.StrongSupport {
			hasSupport = true
		}
		if s.Value <= r.routing.StrongOpposition {
			hasOpposition = true
		}
	}
	return hasSupport && hasOpposition
}

// isHighStakes reports whether the case warrants committee review on
// stakes alone: an exceptionally high mean component score, or a
// sensitive program.
func (r *DecisionResolver) isHighStakes(req ResolveRequest) bool {
	for _, p := range r.routing.SensitivePrograms {
		if p == req.Program {
			return true
		}
	}

	if len(req.Assessment.Scores) == 0 {
		return false
	}
	var sum float64
	for _, s := range req.Assessment.Scores {
		sum += s.Value
	}
	return sum/float64(len(req.Assessment.Scores)) >= r.routing.HighStakesScore
}

// resolveAutomated runs the aggregation unit and maps the weighted score
// onto the shared decision categories.
func (r *DecisionResolver) resolveAutomated(
	ctx context.Context,
	req ResolveRequest,
	state domain.State,
) (*domain.DecisionOutcome, error) {
	state = domain.With(state, domain.KeyAssessment, req.Assessment)

	state, err := r.aggregator.Execute(ctx, state)
	if err != nil {
		return nil, err
	}

	aggregate, ok := domain.Get(state, domain.KeyAggregate)
	if !ok || aggregate == nil {
		return nil, fmt.Errorf("aggregator produced no result for application %s", req.ApplicationID)
	}

	decision := domain.DecisionFromScore(aggregate.Overall)
	confidence := aggregate.Confidence / 100
	guidance := domain.GuidanceFor(decision)

	return &domain.DecisionOutcome{
		ApplicationID:      req.ApplicationID,
		Decision:           decision,
		Path:               domain.PathAutomated,
		OverallScore:       aggregate.Overall,
		Confidence:         confidence,
		ComponentBreakdown: aggregate.Breakdown,
		Consensus:          true,
		QuorumMet:          true,
		SpiritualAlignment: true,
		Reasoning:          guidance.Reasoning,
		NextSteps:          guidance.NextSteps,
		AppealEligible:     domain.AppealEligible(true, confidence),
		DecidedAt:          r.now(),
	}, nil
}

// resolveByCommittee plans a voting session, collects the votes from the
// external collector, tallies them, and maps the winning option onto the
// shared decision categories.
//
// A tally without quorum is demoted to NO_CONSENSUS: support measured on
// too few voters is not an institutional decision, however unanimous.
// The session is cancelled when its deadline lapsed without quorum and
// completed otherwise.
func (r *DecisionResolver) resolveByCommittee(
	ctx context.Context,
	req ResolveRequest,
	state domain.State,
) (*domain.DecisionOutcome, error) {
	if r.collector == nil {
		return nil, fmt.Errorf("committee path requires a vote collector")
	}

	sessionType := domain.SessionStandard
	if req.Expedited {
		sessionType = domain.SessionExpedited
	}

	session, err := r.planner.PlanSession(req.ApplicationID, req.Candidates, sessionType, r.now())
	if err != nil {
		return nil, fmt.Errorf("plan session for application %s: %w", req.ApplicationID, err)
	}
	if err := session.Activate(); err != nil {
		return nil, err
	}

	votes, err := r.collector.CollectVotes(ctx, session)
	if err != nil {
		return nil, ports.NewCollectError(session.ID, err)
	}

	state = domain.With(state, domain.KeySession, session)
	state = domain.With(state, domain.KeyVotes, votes)

	state, err = r.tally.Execute(ctx, state)
	if err != nil {
		return nil, err
	}

	result, ok := domain.Get(state, domain.KeyTally)
	if !ok || result == nil {
		return nil, fmt.Errorf("tally produced no result for session %s", session.ID)
	}

	if !result.QuorumMet {
		if _, cErr := r.planner.CancelIfExpired(session, r.now()); cErr != nil {
			return nil, cErr
		}
	}
	if session.Status == domain.SessionActive {
		if err := session.Complete(); err != nil {
			return nil, err
		}
	}

	decision := result.Decision
	if !result.QuorumMet {
		decision = domain.DecisionNoConsensus
	}

	settled := result.Consensus && result.QuorumMet
	guidance := domain.GuidanceFor(decision)

	return &domain.DecisionOutcome{
		ApplicationID:      req.ApplicationID,
		Decision:           decision,
		Path:               domain.PathCommittee,
		OverallScore:       result.WinningScore * 100,
		Confidence:         result.WinningScore,
		Consensus:          result.Consensus,
		QuorumMet:          result.QuorumMet,
		SpiritualAlignment: result.SpiritualAlignment,
		Reasoning:          guidance.Reasoning,
		NextSteps:          guidance.NextSteps,
		AppealEligible:     domain.AppealEligible(settled, result.WinningScore),
		SessionID:          session.ID,
		DecidedAt:          r.now(),
	}, nil
}

// handoff delivers the outcome to the store and notifier. Failures are
// collected, not fatal: the computed decision stays authoritative.
func (r *DecisionResolver) handoff(ctx context.Context, outcome *domain.DecisionOutcome) []error {
	var errs []error

	if r.store != nil {
		if err := r.store.SaveOutcome(ctx, outcome); err != nil {
			errs = append(errs, ports.NewStoreError(outcome.ApplicationID, "save_outcome", err))
		}
	}
	if r.notifier != nil {
		if err := r.notifier.NotifyApplicant(ctx, outcome); err != nil {
			errs = append(errs, ports.NewNotifyError(outcome.ApplicationID, err))
		}
	}

	status := "ok"
	if len(errs) > 0 {
		status = "handoff_failed"
	}
	r.countOperation("handoff", status, string(outcome.Path))

	return errs
}

// recordOutcome publishes decision metrics when a collector is wired.
func (r *DecisionResolver) recordOutcome(outcome *domain.DecisionOutcome, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}

	labels := map[string]string{
		"decision": string(outcome.Decision),
		"path":     string(outcome.Path),
	}
	r.metrics.RecordCounter("decision", 1, labels)
	r.metrics.RecordLatency("resolve", elapsed, labels)
	r.metrics.RecordHistogram("overall_score", outcome.OverallScore, labels)
}

// countOperation increments an operation counter when metrics are wired.
func (r *DecisionResolver) countOperation(operation, status, path string) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordCounter(operation, 1, map[string]string{
		"status": status,
		"path":   path,
	})
}
