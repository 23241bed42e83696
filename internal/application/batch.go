package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/veritasedu/conclave/internal/domain"
)

// BatchResult holds the outcome of one request in a batch. Exactly one
// of Outcome and Err is set, except after a handoff failure where the
// outcome is still authoritative and both are populated.
type BatchResult struct {
	// Request is the request this result answers.
	Request ResolveRequest

	// Outcome is the computed decision, nil when resolution failed.
	Outcome *domain.DecisionOutcome

	// Err is the resolution or handoff error, nil on full success.
	Err error
}

// ResolveBatch resolves many requests concurrently, up to maxParallel at
// a time (unlimited when maxParallel <= 0). Results are returned in
// request order.
//
// Requests are isolated: a failing request records its error in its slot
// and never cancels its siblings. Only context cancellation stops the
// batch, and even then every slot carries either its outcome or the
// cancellation error.
func (r *DecisionResolver) ResolveBatch(
	ctx context.Context,
	requests []ResolveRequest,
	maxParallel int,
) []BatchResult {
	results := make([]BatchResult, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	if maxParallel > 0 {
		g.SetLimit(maxParallel)
	}

	for i, req := range requests {
		i, req := i, req // per-iteration copies; required while go.mod targets go < 1.22
		g.Go(func() error {
			outcome, err := r.Resolve(ctx, req)
			results[i] = BatchResult{Request: req, Outcome: outcome, Err: err}
			// Per-request failures stay in their slot; returning them
			// would cancel the group's context for the other requests.
			return nil
		})
	}

	// Workers never return errors, so Wait only synchronizes.
	_ = g.Wait()

	return results
}
