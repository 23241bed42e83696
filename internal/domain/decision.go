// Package domain contains pure, dependency-free domain models and types
// for the admissions decision engine.
package domain

// Decision is the categorical outcome of an admissions decision run.
// Both the automated scoring path and the committee voting path resolve
// to this same five-way set so downstream consumers see a uniform shape.
type Decision string

// The five admission decision categories.
const (
	// DecisionAccepted indicates a full, unconditional acceptance.
	DecisionAccepted Decision = "ACCEPTED"

	// DecisionRejected indicates the application was declined.
	DecisionRejected Decision = "REJECTED"

	// DecisionWaitlisted indicates the application is held pending capacity.
	DecisionWaitlisted Decision = "WAITLISTED"

	// DecisionConditional indicates acceptance contingent on further
	// requirements being met.
	DecisionConditional Decision = "CONDITIONAL_ACCEPTANCE"

	// DecisionNoConsensus indicates a committee tally where no option
	// reached the consensus threshold. A narrow plurality is deliberately
	// not treated as an institutional decision.
	DecisionNoConsensus Decision = "NO_CONSENSUS"
)

// Valid reports whether d is one of the five recognized categories.
func (d Decision) Valid() bool {
	switch d {
	case DecisionAccepted, DecisionRejected, DecisionWaitlisted,
		DecisionConditional, DecisionNoConsensus:
		return true
	}
	return false
}

// Score thresholds for mapping an overall 0-100 score to a decision
// category. Boundaries are inclusive lower bounds: a score exactly at a
// threshold resolves to the higher category.
const (
	AcceptScoreThreshold      = 85.0
	ConditionalScoreThreshold = 70.0
	WaitlistScoreThreshold    = 60.0
)

// DecisionFromScore maps an overall score in [0,100] to a decision
// category using the fixed institutional thresholds.
func DecisionFromScore(overall float64) Decision {
	switch {
	case overall >= AcceptScoreThreshold:
		return DecisionAccepted
	case overall >= ConditionalScoreThreshold:
		return DecisionConditional
	case overall >= WaitlistScoreThreshold:
		return DecisionWaitlisted
	default:
		return DecisionRejected
	}
}

// DecisionFromChoice maps a winning vote choice to its decision category.
// It returns false for choices that can never win a tally (ABSTAIN or an
// unrecognized value).
func DecisionFromChoice(c VoteChoice) (Decision, bool) {
	switch c {
	case ChoiceAccept:
		return DecisionAccepted, true
	case ChoiceReject:
		return DecisionRejected, true
	case ChoiceWaitlist:
		return DecisionWaitlisted, true
	case ChoiceConditional:
		return DecisionConditional, true
	default:
		return "", false
	}
}

// Guidance holds the deterministic explanation attached to a decision
// category: a fixed reasoning text and an ordered list of next steps for
// the applicant. Generating these from a lookup rather than free text
// keeps outcomes reproducible and testable.
type Guidance struct {
	// Reasoning explains the institutional meaning of the category.
	Reasoning string

	// NextSteps lists the actions expected of the applicant, in order.
	NextSteps []string
}

// guidanceTable is the single source of truth for category reasoning and
// next steps, shared by the automated and committee paths.
var guidanceTable = map[Decision]Guidance{
	DecisionAccepted: {
		Reasoning: "The application met or exceeded the acceptance standard across the weighted assessment components.",
		NextSteps: []string{
			"Confirm your intent to enroll through the applicant portal",
			"Complete the enrollment deposit",
			"Register for orientation",
		},
	},
	DecisionConditional: {
		Reasoning: "The application met the conditional acceptance standard; full admission depends on satisfying the stated conditions.",
		NextSteps: []string{
			"Review the conditions attached to your offer",
			"Submit the outstanding requirements before the stated deadline",
			"Confirm your intent to enroll once conditions are cleared",
		},
	},
	DecisionWaitlisted: {
		Reasoning: "The application met the waitlist standard but fell short of the acceptance threshold for the current cycle.",
		NextSteps: []string{
			"Confirm your place on the waitlist",
			"Submit any updated materials that strengthen your application",
			"Await notification as places become available",
		},
	},
	DecisionRejected: {
		Reasoning: "The application did not meet the minimum admission standard for this cycle.",
		NextSteps: []string{
			"Review the component feedback provided with this decision",
			"Consider reapplying in a future cycle",
			"Contact the admissions office for guidance on strengthening a future application",
		},
	},
	DecisionNoConsensus: {
		Reasoning: "The admissions committee did not reach the consensus threshold required to issue an institutional decision.",
		NextSteps: []string{
			"Your application will be scheduled for an extended committee review",
			"No action is required from you at this time",
			"Await further communication from the admissions office",
		},
	},
}

// GuidanceFor returns the fixed reasoning and next steps for a decision
// category. Unknown categories return the NO_CONSENSUS guidance so a
// caller never receives an empty explanation.
func GuidanceFor(d Decision) Guidance {
	if g, ok := guidanceTable[d]; ok {
		return g
	}
	return guidanceTable[DecisionNoConsensus]
}

// AppealConfidenceBar is the confidence fraction below which an outcome
// is always appealable, regardless of category.
const AppealConfidenceBar = 0.8

// AppealEligible reports whether an outcome can be appealed. Outcomes
// lacking full consensus and outcomes decided below the confidence bar
// are appealable; clean high-confidence decisions are not.
func AppealEligible(consensus bool, confidence float64) bool {
	return !consensus || confidence < AppealConfidenceBar
}
