// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/veritasedu/conclave/internal/domain"
)

// Unit is a single step of the decision pipeline. Each Unit performs one
// transformation on the decision State, so the automated and committee
// paths compose from the same building blocks.
// Units should be stateless and thread-safe for concurrent execution.
type Unit interface {
	// Name returns a unique identifier for this unit.
	// The name is used for tracing, metrics labels, and configuration.
	Name() string

	// Execute performs the unit's transformation on the provided State.
	// It returns a new State containing the results; the original State
	// must not be modified. Errors are returned rather than panicking.
	//
	// The context parameter allows for cancellation and deadline
	// propagation, which matters for units that call collaborators.
	//
	// Example:
	//
	//	newState, err := unit.Execute(ctx, state)
	//	if err != nil {
	//	    return nil, fmt.Errorf("unit %s failed: %w", unit.Name(), err)
	//	}
	Execute(ctx context.Context, state domain.State) (domain.State, error)

	// Validate checks if the unit is properly configured and ready for
	// execution. It is typically called during engine construction.
	// Return nil if validation passes, or an error describing what is
	// invalid.
	Validate() error
}

// Tallier computes a voting result from a full vote set. Tallying is a
// pure recomputation: calling it twice on the identical vote list yields
// an identical result, so it is safe to re-run whenever new votes arrive.
type Tallier interface {
	// Tally partitions votes into substantive and abstaining/low-confidence
	// groups, computes weighted per-option scores, and applies the
	// consensus threshold.
	//
	// A quorum miss is reported in the result, never as an error, so
	// callers can extend deadlines rather than abort. Tally fails only
	// when there is nothing to score: domain.ErrEmptyVoteSet for an empty
	// input, domain.ErrNoValidVotes when every vote is malformed.
	Tally(ctx context.Context, votes []domain.Vote, quorum int) (*domain.VotingResult, error)
}
