package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/veritasedu/conclave/internal/domain"
	"github.com/veritasedu/conclave/internal/testutils"
)

func TestRateLimitNotifier_PacesDelivery(t *testing.T) {
	inner := &testutils.FakeNotifier{}
	notifier := RateLimitNotifier(inner, rate.Limit(2), 1)

	outcome := &domain.DecisionOutcome{ApplicationID: "app-1", Decision: domain.DecisionAccepted}

	start := time.Now()
	require.NoError(t, notifier.NotifyApplicant(context.Background(), outcome))
	firstDuration := time.Since(start)
	assert.Less(t, firstDuration, 100*time.Millisecond, "first notification should be immediate")

	start = time.Now()
	require.NoError(t, notifier.NotifyApplicant(context.Background(), outcome))
	secondDuration := time.Since(start)
	assert.Greater(t, secondDuration, 300*time.Millisecond, "second notification should wait for a token")

	assert.Len(t, inner.Notified(), 2, "both notifications should reach the inner notifier")
}

func TestRateLimitNotifier_ContextCancellation(t *testing.T) {
	inner := &testutils.FakeNotifier{}
	notifier := RateLimitNotifier(inner, rate.Limit(0.001), 1)

	outcome := &domain.DecisionOutcome{ApplicationID: "app-1", Decision: domain.DecisionRejected}

	// Drain the single burst token.
	require.NoError(t, notifier.NotifyApplicant(context.Background(), outcome))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := notifier.NotifyApplicant(ctx, outcome)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Len(t, inner.Notified(), 1, "cancelled notification must not reach the inner notifier")
}

func TestRateLimitNotifier_PropagatesInnerError(t *testing.T) {
	inner := &testutils.FakeNotifier{Err: assert.AnError}
	notifier := RateLimitNotifier(inner, rate.Limit(10), 10)

	err := notifier.NotifyApplicant(context.Background(), &domain.DecisionOutcome{ApplicationID: "app-1"})
	assert.ErrorIs(t, err, assert.AnError)
}
