package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasedu/conclave/internal/domain"
)

func TestDefaultEngineConfigIsValid(t *testing.T) {
	cfg := DefaultEngineConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.75, cfg.Tally.ConsensusThreshold)
	assert.Equal(t, 0.8, cfg.Tally.AlignmentThreshold)
	assert.Equal(t, 75.0, cfg.Routing.StrongSupport)
	assert.Equal(t, 40.0, cfg.Routing.StrongOpposition)
	assert.Equal(t, 92.0, cfg.Routing.HighStakesScore)
}

func TestEngineConfigValidate(t *testing.T) {
	t.Run("bad weights rejected", func(t *testing.T) {
		cfg := DefaultEngineConfig()
		cw := cfg.Aggregator.Weights[domain.ComponentSpiritual]
		cw.Weight = 0.99
		cfg.Aggregator.Weights[domain.ComponentSpiritual] = cw

		err := cfg.Validate()
		assert.ErrorIs(t, err, domain.ErrInvalidWeightConfig)
	})

	t.Run("out-of-range routing threshold rejected", func(t *testing.T) {
		cfg := DefaultEngineConfig()
		cfg.Routing.HighStakesScore = 150

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})
}

func TestLoadEngineConfig(t *testing.T) {
	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "engine.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("file values overlay the defaults", func(t *testing.T) {
		path := writeConfig(t, `
tally:
  consensus_threshold: 0.66
committee:
  expedited_window: 24h
routing:
  sensitive_programs:
    - divinity
`)

		cfg, err := LoadEngineConfig(context.Background(), &YAMLFileLoader{Path: path})
		require.NoError(t, err)

		assert.Equal(t, 0.66, cfg.Tally.ConsensusThreshold)
		assert.Equal(t, 24*time.Hour, cfg.Committee.ExpeditedWindow)
		assert.Equal(t, []string{"divinity"}, cfg.Routing.SensitivePrograms)

		// Untouched sections keep the institutional defaults.
		assert.Equal(t, 0.30, cfg.Aggregator.Weights[domain.ComponentSpiritual].Weight)
		assert.Equal(t, 7*24*time.Hour, cfg.Committee.StandardWindow)
	})

	t.Run("invalid weight overlay is rejected", func(t *testing.T) {
		path := writeConfig(t, `
aggregator:
  weights:
    spiritual: {weight: 0.9, passing_threshold: 60}
    academic: {weight: 0.9, passing_threshold: 60}
    character: {weight: 0.9, passing_threshold: 60}
    interview: {weight: 0.9, passing_threshold: 60}
    eligibility: {weight: 0.9, passing_threshold: 60}
`)

		_, err := LoadEngineConfig(context.Background(), &YAMLFileLoader{Path: path})
		assert.ErrorIs(t, err, domain.ErrInvalidWeightConfig)
	})

	t.Run("missing file is reported", func(t *testing.T) {
		_, err := LoadEngineConfig(context.Background(), &YAMLFileLoader{Path: "does/not/exist.yaml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})

	t.Run("malformed yaml is reported", func(t *testing.T) {
		path := writeConfig(t, "tally: [not: a: mapping")

		_, err := LoadEngineConfig(context.Background(), &YAMLFileLoader{Path: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}
