package csvfile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// extractor is the slice of pipeline.BatchExtractor this package needs.
type extractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// CachedExtractor wraps an extractor with explicit load-once memoization:
// the first ReadAll drains the source and caches the rows, later calls
// return the cached slice. Reading the multi-million-row source file is
// expensive; callers that need repeated passes own the cache rather than
// relying on ambient global state.
type CachedExtractor struct {
	inner  extractor
	logger *slog.Logger

	once   sync.Once
	events []domain.RawEvent
	err    error
}

// NewCachedExtractor creates a memoizing decorator around an extractor.
func NewCachedExtractor(inner extractor, logger *slog.Logger) *CachedExtractor {
	return &CachedExtractor{inner: inner, logger: logger}
}

// ReadAll drains the inner extractor exactly once and returns the cached
// rows on every subsequent call.
func (c *CachedExtractor) ReadAll(ctx context.Context) ([]domain.RawEvent, error) {
	c.once.Do(func() {
		c.events, c.err = c.drain(ctx)
		if c.err == nil {
			c.logger.Info("dataset cached", "rows", len(c.events))
		}
	})
	return c.events, c.err
}

func (c *CachedExtractor) drain(ctx context.Context) ([]domain.RawEvent, error) {
	const drainBatchSize = 5000

	var all []domain.RawEvent
	for {
		batch, err := c.inner.ExtractBatch(ctx, drainBatchSize)
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
}
