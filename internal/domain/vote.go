package domain

import "time"

// VoteChoice is a committee member's selected outcome for an application.
type VoteChoice string

// The recognized vote choices.
const (
	ChoiceAccept      VoteChoice = "ACCEPT"
	ChoiceReject      VoteChoice = "REJECT"
	ChoiceWaitlist    VoteChoice = "WAITLIST"
	ChoiceConditional VoteChoice = "CONDITIONAL"
	ChoiceAbstain     VoteChoice = "ABSTAIN"
)

// SubstantiveChoices returns the choices that can accumulate weighted
// support, in canonical order. ABSTAIN is excluded: it counts toward
// participation but never toward an option's score.
func SubstantiveChoices() []VoteChoice {
	return []VoteChoice{ChoiceAccept, ChoiceReject, ChoiceWaitlist, ChoiceConditional}
}

// Valid reports whether c is a recognized vote choice.
func (c VoteChoice) Valid() bool {
	switch c {
	case ChoiceAccept, ChoiceReject, ChoiceWaitlist, ChoiceConditional, ChoiceAbstain:
		return true
	}
	return false
}

// MinSubstantiveConfidence is the confidence floor below which a vote is
// treated as abstaining for scoring purposes.
const MinSubstantiveConfidence = 0.5

// Vote is a single committee member's ballot. A member casts exactly one
// vote per session and the vote is immutable after submission.
type Vote struct {
	// VoterID identifies the committee member who cast the vote.
	VoterID string `json:"voter_id"`

	// Weight is the voter's institutional weight. It must be positive.
	Weight float64 `json:"weight"`

	// Choice is the selected outcome.
	Choice VoteChoice `json:"choice"`

	// Confidence is how certain the voter is about the choice, in [0,1].
	Confidence float64 `json:"confidence"`

	// Rationale is the voter's free-text justification.
	Rationale string `json:"rationale,omitempty"`

	// DiscernmentNote is optional qualitative spiritual commentary.
	// Notes feed the alignment check; votes without one are simply not
	// counted toward it.
	DiscernmentNote string `json:"discernment_note,omitempty"`

	// CastAt records when the vote was submitted.
	CastAt time.Time `json:"cast_at"`
}

// WellFormed reports whether the vote is structurally valid: a known
// choice, a positive weight, a confidence within [0,1], and a voter ID.
// Malformed votes are excluded from tallying rather than aborting it.
func (v Vote) WellFormed() bool {
	return v.VoterID != "" &&
		v.Weight > 0 &&
		v.Confidence >= 0 && v.Confidence <= 1 &&
		v.Choice.Valid()
}

// Substantive reports whether the vote contributes weighted support:
// well-formed, not an abstention, and at or above the confidence floor.
func (v Vote) Substantive() bool {
	return v.WellFormed() &&
		v.Choice != ChoiceAbstain &&
		v.Confidence >= MinSubstantiveConfidence
}

// VotingResult is the outcome of tallying one session's votes. It is a
// pure recomputation over the full vote set, so re-running a tally as new
// votes arrive is safe and idempotent.
type VotingResult struct {
	// OptionScores maps each substantive choice to its weighted score in
	// [0,1]. Scores are confidence-scaled, so they need not sum to 1.
	OptionScores map[VoteChoice]float64 `json:"option_scores"`

	// Winner is the highest-scoring option, or empty when no substantive
	// votes were cast.
	Winner VoteChoice `json:"winner,omitempty"`

	// WinningScore is the winner's weighted score.
	WinningScore float64 `json:"winning_score"`

	// Decision is the mapped category: the winner's category when the
	// consensus threshold was reached, NO_CONSENSUS otherwise.
	Decision Decision `json:"decision"`

	// Consensus is true when the winning score reached the configured
	// consensus threshold.
	Consensus bool `json:"consensus"`

	// QuorumMet is true when enough substantive votes were cast. A quorum
	// miss is reported here rather than as an error so callers can extend
	// deadlines instead of aborting.
	QuorumMet bool `json:"quorum_met"`

	// SpiritualAlignment reflects the discernment-note check: true when
	// the aligned fraction reached the threshold, and vacuously true when
	// no notes were submitted.
	SpiritualAlignment bool `json:"spiritual_alignment"`

	// Participation counters.
	TotalVotes       int `json:"total_votes"`
	SubstantiveVotes int `json:"substantive_votes"`
	AbstainVotes     int `json:"abstain_votes"`
	InvalidVotes     int `json:"invalid_votes"`

	// NotesClassified and NotesAligned report the discernment-note sample
	// the alignment fraction was computed over.
	NotesClassified int `json:"notes_classified"`
	NotesAligned    int `json:"notes_aligned"`
}
