// Package pipeline orchestrates the extract-clean-accumulate loop that feeds
// the impact report.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/report"
)

// BatchExtractor reads up to batchSize raw events from the source. A drained
// finite source (e.g. a local CSV file) returns io.EOF once exhausted.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Publisher forwards cleaned events to downstream consumers. Optional.
type Publisher interface {
	PublishBatch(ctx context.Context, events []domain.CleanedEvent) error
}

// Pipeline orchestrates the batch loop: extract raw events, clean each row,
// fold it into the accumulator, and optionally publish the cleaned batch.
type Pipeline struct {
	extractor BatchExtractor
	publisher Publisher // nil disables publishing
	acc       *report.Accumulator
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Pipeline with the given stages and observability. Pass a nil
// publisher to disable the sink.
func New(e BatchExtractor, p Publisher, acc *report.Accumulator, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		publisher: p,
		acc:       acc,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil if the pipeline has processed at least one
// batch, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any rows yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled or a finite
// source is drained.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during source outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-clean-accumulate cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		if errors.Is(err, io.EOF) {
			total, unclassifiable := p.acc.Counts()
			p.logger.Info("source drained", "rows_total", total, "rows_unclassifiable", unclassifiable)
			p.ready.Store(true)
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.RowsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	cleaned, successfulRaws := p.cleanBatch(ctx, rawBatch)

	if p.publisher != nil && len(cleaned) > 0 {
		if err := p.publisher.PublishBatch(ctx, cleaned); err != nil {
			p.logger.Error("publish batch failed", "error", err, "batch_size", len(cleaned))
			return p.backoffOrStop(ctx, backoff, maxBackoff)
		}
		p.metrics.RowsPublished.Add(float64(len(cleaned)))
	}

	for _, e := range cleaned {
		p.acc.Add(e)
	}
	p.metrics.RowsCleaned.Add(float64(len(cleaned)))

	for _, raw := range successfulRaws {
		p.commitOffset(ctx, raw)
	}

	if len(cleaned) > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// cleanBatch deserializes and cleans each row. Rows that fail to deserialize
// are logged, counted, committed, and skipped; cleaning itself never fails.
func (p *Pipeline) cleanBatch(ctx context.Context, rawBatch []domain.RawEvent) ([]domain.CleanedEvent, []domain.RawEvent) {
	cleaned := make([]domain.CleanedEvent, 0, len(rawBatch))
	successfulRaws := make([]domain.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		rec, err := domain.ParseRawEvent(raw)
		if err != nil {
			p.logger.Warn("parse failed, skipping row",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.ParseErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}

		event := domain.CleanEvent(rec)
		if event.Category == domain.CategoryUnclassifiable {
			p.metrics.RowsUnclassifiable.Inc()
		}
		cleaned = append(cleaned, event)
		successfulRaws = append(successfulRaws, raw)
	}

	return cleaned, successfulRaws
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
