package domain

import "time"

// ReviewPath records which route produced an outcome.
type ReviewPath string

// The two decision routes.
const (
	PathAutomated ReviewPath = "automated"
	PathCommittee ReviewPath = "committee"
)

// DecisionOutcome is the final, write-once record of one decision
// request. It is handed to the external notifier and store; once computed
// it is authoritative, and collaborator failures never roll it back.
type DecisionOutcome struct {
	// ApplicationID identifies the application the decision is for.
	ApplicationID string `json:"application_id"`

	// Decision is the categorical result.
	Decision Decision `json:"decision"`

	// Path records whether the automated or the committee route decided.
	Path ReviewPath `json:"path"`

	// OverallScore is the weighted overall score in [0,100]. On the
	// committee path it is the winning option score scaled to [0,100].
	OverallScore float64 `json:"overall_score"`

	// Confidence is the normalized decision confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// ComponentBreakdown maps components to their weighted contributions.
	// It is empty for committee-path outcomes.
	ComponentBreakdown map[Component]float64 `json:"component_breakdown,omitempty"`

	// Consensus reports whether the deciding signal reached the consensus
	// threshold. Automated outcomes always carry consensus.
	Consensus bool `json:"consensus"`

	// QuorumMet reports the quorum check for committee outcomes. It is
	// true for automated outcomes, which need no quorum.
	QuorumMet bool `json:"quorum_met"`

	// SpiritualAlignment reflects the discernment-note check.
	SpiritualAlignment bool `json:"spiritual_alignment"`

	// Reasoning is the fixed explanation for the decision category.
	Reasoning string `json:"reasoning"`

	// NextSteps lists the applicant's expected actions, in order.
	NextSteps []string `json:"next_steps"`

	// AppealEligible reports whether the outcome can be appealed.
	AppealEligible bool `json:"appeal_eligible"`

	// SessionID links a committee outcome to its voting session.
	SessionID string `json:"session_id,omitempty"`

	// DecidedAt records when the outcome was computed.
	DecidedAt time.Time `json:"decided_at"`
}
