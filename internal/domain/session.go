package domain

import (
	"math"
	"time"
)

// SessionStatus is the lifecycle state of a committee voting session.
type SessionStatus string

// Session lifecycle states. Transitions are one-directional:
// PENDING -> ACTIVE -> COMPLETED, with CANCELLED reachable from PENDING or
// ACTIVE only.
const (
	SessionPending   SessionStatus = "PENDING"
	SessionActive    SessionStatus = "ACTIVE"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
)

// SessionType distinguishes standard reviews from expedited ones. The
// type selects the deadline window applied when the session is planned.
type SessionType string

// Supported session types.
const (
	SessionStandard  SessionType = "standard"
	SessionExpedited SessionType = "expedited"
)

// MinimumQuorum is the floor on substantive votes required regardless of
// committee size.
const MinimumQuorum = 3

// QuorumFor computes the required quorum for a committee of the given
// size: max(3, ceil(0.6 * memberCount)).
func QuorumFor(memberCount int) int {
	required := int(math.Ceil(0.6 * float64(memberCount)))
	if required < MinimumQuorum {
		return MinimumQuorum
	}
	return required
}

// CommitteeMember is a voter eligible to sit on an admissions committee.
type CommitteeMember struct {
	// ID identifies the member.
	ID string `json:"id"`

	// Name is the member's display name.
	Name string `json:"name,omitempty"`

	// Role is the member's institutional role category, used for chair
	// selection priority.
	Role string `json:"role"`

	// Weight is the member's voting weight. It must be positive.
	Weight float64 `json:"weight"`

	// Available indicates whether the member can serve in this session.
	Available bool `json:"available"`
}

// VotingSession models one committee review of one application. The
// resolver owns a session for the duration of a single decision request
// and discards it after handing the outcome to the store.
type VotingSession struct {
	// ID uniquely identifies the session.
	ID string `json:"id"`

	// ApplicationID is the application under review.
	ApplicationID string `json:"application_id"`

	// Type selects the deadline window policy.
	Type SessionType `json:"type"`

	// RequiredQuorum is the minimum number of substantive votes for the
	// tally to be actionable.
	RequiredQuorum int `json:"required_quorum"`

	// Deadline is when voting closes. Expiry is evaluated by comparing a
	// caller-supplied clock to this value, never by a background timer.
	Deadline time.Time `json:"deadline"`

	// Status is the current lifecycle state.
	Status SessionStatus `json:"status"`

	// Chair is the selected chairperson.
	Chair CommitteeMember `json:"chair"`

	// Members are the selected committee members, chair included.
	Members []CommitteeMember `json:"members"`

	// CreatedAt records when the session was planned.
	CreatedAt time.Time `json:"created_at"`
}

// Activate opens the session for voting. Only a PENDING session can be
// activated.
func (s *VotingSession) Activate() error {
	if s.Status != SessionPending {
		return &TransitionError{SessionID: s.ID, From: s.Status, To: SessionActive}
	}
	s.Status = SessionActive
	return nil
}

// Complete finalizes the session after its tally. Only an ACTIVE session
// can be completed.
func (s *VotingSession) Complete() error {
	if s.Status != SessionActive {
		return &TransitionError{SessionID: s.ID, From: s.Status, To: SessionCompleted}
	}
	s.Status = SessionCompleted
	return nil
}

// Cancel abandons the session, typically when the deadline passed without
// quorum. A COMPLETED session can never be cancelled.
func (s *VotingSession) Cancel() error {
	if s.Status != SessionPending && s.Status != SessionActive {
		return &TransitionError{SessionID: s.ID, From: s.Status, To: SessionCancelled}
	}
	s.Status = SessionCancelled
	return nil
}

// OpenForVoting reports whether votes can still be cast at the given
// time: the session is ACTIVE and the deadline has not passed.
func (s *VotingSession) OpenForVoting(now time.Time) bool {
	return s.Status == SessionActive && now.Before(s.Deadline)
}
