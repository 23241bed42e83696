package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasedu/conclave/internal/domain"
	"github.com/veritasedu/conclave/internal/testutils"
)

func TestDecisionResolver_ResolveBatch(t *testing.T) {
	store := &testutils.FakeStore{}
	resolver, err := NewDecisionResolver(DefaultEngineConfig(), Dependencies{
		Classifier: &testutils.FakeClassifier{},
		Store:      store,
	})
	require.NoError(t, err)

	t.Run("results come back in request order", func(t *testing.T) {
		requests := []ResolveRequest{
			{ApplicationID: "app-1", Assessment: testutils.NewAssessment("app-1", uniformScores(90))},
			{ApplicationID: "app-2", Assessment: testutils.NewAssessment("app-2", uniformScores(65))},
			{ApplicationID: "app-3", Assessment: testutils.NewAssessment("app-3", uniformScores(50))},
		}

		results := resolver.ResolveBatch(context.Background(), requests, 2)
		require.Len(t, results, 3)

		assert.Equal(t, "app-1", results[0].Request.ApplicationID)
		assert.Equal(t, domain.DecisionAccepted, results[0].Outcome.Decision)
		assert.Equal(t, domain.DecisionWaitlisted, results[1].Outcome.Decision)
		assert.Equal(t, domain.DecisionRejected, results[2].Outcome.Decision)
		for _, r := range results {
			assert.NoError(t, r.Err)
		}
	})

	t.Run("a failing request never cancels its siblings", func(t *testing.T) {
		requests := []ResolveRequest{
			{ApplicationID: "app-ok-1", Assessment: testutils.NewAssessment("app-ok-1", uniformScores(70))},
			{ApplicationID: "app-bad"}, // no assessment
			{ApplicationID: "app-ok-2", Assessment: testutils.NewAssessment("app-ok-2", uniformScores(70))},
		}

		results := resolver.ResolveBatch(context.Background(), requests, 0)
		require.Len(t, results, 3)

		assert.NoError(t, results[0].Err)
		require.NotNil(t, results[0].Outcome)

		assert.ErrorIs(t, results[1].Err, domain.ErrIncompleteAssessment)
		assert.Nil(t, results[1].Outcome)

		assert.NoError(t, results[2].Err)
		require.NotNil(t, results[2].Outcome)

		_, ok := store.Saved("app-ok-2")
		assert.True(t, ok, "successful siblings still persist their outcomes")
	})

	t.Run("empty batch yields an empty result set", func(t *testing.T) {
		results := resolver.ResolveBatch(context.Background(), nil, 4)
		assert.Empty(t, results)
	})
}
