// Package testutils provides shared fixtures and fake collaborators for
// testing the decision engine. Builders return fresh values on every
// call so tests can mutate them freely.
package testutils

import (
	"fmt"
	"time"

	"github.com/veritasedu/conclave/internal/domain"
)

// FixedTime is a stable reference instant used across fixtures so tests
// never depend on the wall clock.
var FixedTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// NewAssessment builds a complete assessment with the given component
// scores applied over a uniform baseline of 75.
func NewAssessment(applicationID string, overrides map[domain.Component]float64) *domain.AssessmentInput {
	scores := make(map[domain.Component]domain.ComponentScore, len(domain.RequiredComponents()))
	for _, c := range domain.RequiredComponents() {
		scores[c] = domain.ComponentScore{Value: 75, Source: "fixture"}
	}
	for c, v := range overrides {
		scores[c] = domain.ComponentScore{Value: v, Source: "fixture"}
	}
	return &domain.AssessmentInput{
		ApplicationID: applicationID,
		Scores:        scores,
		SubmittedAt:   FixedTime,
	}
}

// NewVote builds a well-formed substantive vote.
func NewVote(voterID string, choice domain.VoteChoice, weight, confidence float64) domain.Vote {
	return domain.Vote{
		VoterID:    voterID,
		Weight:     weight,
		Choice:     choice,
		Confidence: confidence,
		Rationale:  "fixture rationale",
		CastAt:     FixedTime,
	}
}

// NewVoteWithNote builds a vote carrying a discernment note.
func NewVoteWithNote(voterID string, choice domain.VoteChoice, weight, confidence float64, note string) domain.Vote {
	v := NewVote(voterID, choice, weight, confidence)
	v.DiscernmentNote = note
	return v
}

// NewCommittee builds n available members with equal weight 1.0 and role
// "faculty". Member IDs are voter-1 through voter-n.
func NewCommittee(n int) []domain.CommitteeMember {
	members := make([]domain.CommitteeMember, 0, n)
	for i := 1; i <= n; i++ {
		members = append(members, domain.CommitteeMember{
			ID:        memberID(i),
			Name:      "Member " + memberID(i),
			Role:      "faculty",
			Weight:    1.0,
			Available: true,
		})
	}
	return members
}

func memberID(i int) string {
	return fmt.Sprintf("voter-%d", i)
}

// NewSession builds an active voting session over the given members,
// with the quorum the member count implies and a deadline one week out.
func NewSession(applicationID string, members []domain.CommitteeMember) *domain.VotingSession {
	return &domain.VotingSession{
		ID:             "session-" + applicationID,
		ApplicationID:  applicationID,
		Type:           domain.SessionStandard,
		Members:        members,
		RequiredQuorum: domain.QuorumFor(len(members)),
		Status:         domain.SessionActive,
		CreatedAt:      FixedTime,
		Deadline:       FixedTime.Add(7 * 24 * time.Hour),
	}
}
