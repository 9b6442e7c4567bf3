package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
	"github.com/couchcryptid/storm-impact-report/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

// mockExtractor serves each configured batch once, then either returns
// io.EOF (finite source) or blocks until the context is cancelled.
type mockExtractor struct {
	batches [][]domain.RawEvent
	finite  bool
	index   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		if m.finite {
			return nil, io.EOF
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published []domain.CleanedEvent
	err       error
}

func (m *mockPublisher) PublishBatch(_ context.Context, events []domain.CleanedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, events...)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.published)
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func makeRawEvent(t *testing.T, evtype, fatalities string) domain.RawEvent {
	t.Helper()
	payload, err := json.Marshal(domain.RawRecord{
		EventType:  evtype,
		Fatalities: fatalities,
		State:      "TX",
	})
	require.NoError(t, err)
	return domain.RawEvent{Value: payload}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	batch := []domain.RawEvent{
		makeRawEvent(t, "TORNADO", "3"),
		makeRawEvent(t, "TSTM WIND", "1"),
		makeRawEvent(t, "Summary of June 3", "9"), // unclassifiable, excluded from summaries
	}
	ext := &mockExtractor{batches: [][]domain.RawEvent{batch}, finite: true}
	pub := &mockPublisher{}
	acc := report.NewAccumulator()

	p := pipeline.New(ext, pub, acc, slog.Default(), newTestMetrics(), 10)

	require.NoError(t, p.Run(context.Background()))

	summaries := acc.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, domain.CategoryThunderstorm, summaries[0].Category)
	assert.Equal(t, domain.CategoryTornado, summaries[1].Category)
	assert.Equal(t, 3, summaries[1].Fatalities)

	total, unclassifiable := acc.Counts()
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, unclassifiable)

	// All rows publish, including the unclassifiable one.
	assert.Equal(t, 3, pub.count())
	require.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_NilPublisher(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawEvent{{makeRawEvent(t, "HAIL", "0")}}, finite: true}
	acc := report.NewAccumulator()

	p := pipeline.New(ext, nil, acc, slog.Default(), newTestMetrics(), 10)

	require.NoError(t, p.Run(context.Background()))
	assert.Len(t, acc.Summaries(), 1)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches, infinite source: will block
	acc := report.NewAccumulator()

	p := pipeline.New(ext, nil, acc, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, acc.Summaries())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_SkipsMalformedRows(t *testing.T) {
	committed := atomic.Int64{}
	bad := domain.RawEvent{
		Value:  []byte("{not json"),
		Commit: func(context.Context) error { committed.Add(1); return nil },
	}
	ext := &mockExtractor{
		batches: [][]domain.RawEvent{{bad, makeRawEvent(t, "LIGHTNING", "1")}},
		finite:  true,
	}
	acc := report.NewAccumulator()

	p := pipeline.New(ext, nil, acc, slog.Default(), newTestMetrics(), 10)

	require.NoError(t, p.Run(context.Background()))

	summaries := acc.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.CategoryLightning, summaries[0].Category)
	// Malformed rows are committed so they are not redelivered.
	assert.Equal(t, int64(1), committed.Load())
}

func TestPipeline_Run_PublishFailureRetries(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawEvent{{makeRawEvent(t, "HAIL", "0")}}}
	pub := &mockPublisher{err: errors.New("broker down")}
	acc := report.NewAccumulator()

	p := pipeline.New(ext, pub, acc, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	// Nothing accumulated while the sink is failing.
	assert.Empty(t, acc.Summaries())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_FiniteSourceDrain(t *testing.T) {
	ext := &mockExtractor{batches: nil, finite: true} // drained immediately
	acc := report.NewAccumulator()

	p := pipeline.New(ext, nil, acc, slog.Default(), newTestMetrics(), 10)

	require.NoError(t, p.Run(context.Background()))
	// Draining a finite source marks the service ready even with zero rows.
	require.NoError(t, p.CheckReadiness(context.Background()))
}
