// Package kafka adapts Kafka topics to the pipeline's extractor and
// publisher interfaces.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// batchPollWindow bounds how long ExtractBatch waits for additional messages
// after the first one arrives. Keeps batches reasonably full without
// stalling a slow topic.
const batchPollWindow = 500 * time.Millisecond

// Reader consumes raw storm event records from the source topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaSourceTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.FirstOffset,
	})
	return &Reader{reader: r, logger: logger}
}

// ExtractBatch blocks until at least one message is available, then drains
// further messages for a short window, up to batchSize. Offsets are
// committed individually via each RawEvent's Commit func.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	first, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch message: %w", err)
	}

	events := make([]domain.RawEvent, 0, batchSize)
	events = append(events, r.mapMessageToRawEvent(first))

	pollCtx, cancel := context.WithTimeout(ctx, batchPollWindow)
	defer cancel()

	for len(events) < batchSize {
		msg, err := r.reader.FetchMessage(pollCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				break
			}
			r.logger.Warn("fetch during batch fill failed", "error", err)
			break
		}
		events = append(events, r.mapMessageToRawEvent(msg))
	}

	return events, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToRawEvent converts a Kafka message into the domain envelope,
// wiring the commit callback to the consumer group.
func (r *Reader) mapMessageToRawEvent(msg kafkago.Message) domain.RawEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Commit: func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		},
	}
}
