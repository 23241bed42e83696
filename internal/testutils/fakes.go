package testutils

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/veritasedu/conclave/internal/domain"
	"github.com/veritasedu/conclave/internal/ports"
)

// FakeCollector is a VoteCollector returning a fixed vote set or error.
type FakeCollector struct {
	Votes []domain.Vote
	Err   error

	mu    sync.Mutex
	calls int
}

var _ ports.VoteCollector = (*FakeCollector)(nil)

// CollectVotes implements ports.VoteCollector.
func (f *FakeCollector) CollectVotes(_ context.Context, _ *domain.VotingSession) ([]domain.Vote, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Votes, nil
}

// Calls reports how many times CollectVotes ran.
func (f *FakeCollector) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FakeNotifier records notified outcomes and optionally fails.
type FakeNotifier struct {
	Err error

	mu       sync.Mutex
	notified []*domain.DecisionOutcome
}

var _ ports.DecisionNotifier = (*FakeNotifier)(nil)

// NotifyApplicant implements ports.DecisionNotifier.
func (f *FakeNotifier) NotifyApplicant(_ context.Context, outcome *domain.DecisionOutcome) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, outcome)
	return nil
}

// Notified returns the outcomes delivered so far.
func (f *FakeNotifier) Notified() []*domain.DecisionOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.DecisionOutcome, len(f.notified))
	copy(out, f.notified)
	return out
}

// FakeStore records saved outcomes by application ID and optionally
// fails.
type FakeStore struct {
	Err error

	mu    sync.Mutex
	saved map[string]*domain.DecisionOutcome
}

var _ ports.DecisionStore = (*FakeStore)(nil)

// SaveOutcome implements ports.DecisionStore.
func (f *FakeStore) SaveOutcome(_ context.Context, outcome *domain.DecisionOutcome) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string]*domain.DecisionOutcome)
	}
	f.saved[outcome.ApplicationID] = outcome
	return nil
}

// Saved returns the stored outcome for an application, if any.
func (f *FakeStore) Saved(applicationID string) (*domain.DecisionOutcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.saved[applicationID]
	return o, ok
}

// FakeClassifier labels notes containing any of its markers as aligned.
// With no markers every non-empty note is aligned. Err, when set, is
// returned on every call.
type FakeClassifier struct {
	Markers []string
	Err     error
}

var _ ports.AlignmentClassifier = (*FakeClassifier)(nil)

// ClassifyNote implements ports.AlignmentClassifier.
func (f *FakeClassifier) ClassifyNote(_ context.Context, note string) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	if len(f.Markers) == 0 {
		return note != "", nil
	}
	for _, m := range f.Markers {
		if strings.Contains(note, m) {
			return true, nil
		}
	}
	return false, nil
}

// FakeMetrics accumulates recorded metrics for assertions.
type FakeMetrics struct {
	mu         sync.Mutex
	Counters   map[string]float64
	Gauges     map[string]float64
	Histograms map[string][]float64
	Latencies  map[string][]time.Duration
}

var _ ports.MetricsCollector = (*FakeMetrics)(nil)

// NewFakeMetrics returns an empty metrics recorder.
func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		Counters:   make(map[string]float64),
		Gauges:     make(map[string]float64),
		Histograms: make(map[string][]float64),
		Latencies:  make(map[string][]time.Duration),
	}
}

// RecordLatency implements ports.MetricsCollector.
func (f *FakeMetrics) RecordLatency(operation string, duration time.Duration, _ map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Latencies[operation] = append(f.Latencies[operation], duration)
}

// RecordCounter implements ports.MetricsCollector.
func (f *FakeMetrics) RecordCounter(metric string, value float64, _ map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Counters[metric] += value
}

// RecordGauge implements ports.MetricsCollector.
func (f *FakeMetrics) RecordGauge(metric string, value float64, _ map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Gauges[metric] = value
}

// RecordHistogram implements ports.MetricsCollector.
func (f *FakeMetrics) RecordHistogram(metric string, value float64, _ map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Histograms[metric] = append(f.Histograms[metric], value)
}

// CounterValue returns the accumulated value for a counter metric.
func (f *FakeMetrics) CounterValue(metric string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Counters[metric]
}
