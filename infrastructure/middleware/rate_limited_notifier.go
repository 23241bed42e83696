package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/veritasedu/conclave/internal/domain"
	"github.com/veritasedu/conclave/internal/ports"
)

var _ ports.DecisionNotifier = (*rateLimitedNotifier)(nil)

// rateLimitedNotifier paces outcome delivery using a token bucket. Mail
// and portal providers throttle aggressively during decision-release
// windows, when thousands of outcomes go out at once.
type rateLimitedNotifier struct {
	next    ports.DecisionNotifier
	limiter *rate.Limiter
}

// RateLimitNotifier wraps a notifier with token-bucket pacing. The limit
// parameter sets notifications per second; burst allows temporary spikes
// above the sustained rate.
func RateLimitNotifier(next ports.DecisionNotifier, limit rate.Limit, burst int) ports.DecisionNotifier {
	return &rateLimitedNotifier{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// NotifyApplicant waits for rate limit permission before forwarding the
// notification. It blocks the calling goroutine until a token is
// available or the context is cancelled.
func (r *rateLimitedNotifier) NotifyApplicant(ctx context.Context, outcome *domain.DecisionOutcome) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return r.next.NotifyApplicant(ctx, outcome)
}
