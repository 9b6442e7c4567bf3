// Package csvfile adapts a local StormData-style CSV file to the pipeline's
// extractor interface. It is the data-loading collaborator for offline runs;
// the core stays agnostic to file format and compression.
package csvfile

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// columns maps the CSV header names we consume to RawRecord fields. Any
// column missing from the file simply yields empty strings, which the
// transform absorbs.
var columns = []string{
	"BGN_DATE", "STATE", "EVTYPE",
	"FATALITIES", "INJURIES",
	"PROPDMG", "PROPDMGEXP", "CROPDMG", "CROPDMGEXP",
}

// Loader streams raw events from a CSV file, optionally gzip-compressed
// (by .gz extension). It implements pipeline.BatchExtractor; once the file
// is exhausted ExtractBatch returns io.EOF.
type Loader struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	closers []io.Closer
	reader  *csv.Reader
	index   map[string]int
	drained bool
}

// NewLoader creates a Loader for the given path. The file is opened lazily
// on the first ExtractBatch call.
func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// ExtractBatch reads up to batchSize rows. Malformed CSV lines are logged
// and skipped; rows become JSON-encoded RawEvents so the pipeline treats
// file and topic sources identically.
func (l *Loader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.drained {
		return nil, io.EOF
	}
	if l.reader == nil {
		if err := l.open(); err != nil {
			return nil, err
		}
	}

	events := make([]domain.RawEvent, 0, batchSize)
	for len(events) < batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := l.reader.Read()
		if errors.Is(err, io.EOF) {
			l.drained = true
			l.closeLocked()
			if len(events) == 0 {
				return nil, io.EOF
			}
			return events, nil
		}
		if err != nil {
			l.logger.Warn("skipping malformed csv line", "error", err)
			continue
		}

		event, err := l.rowToEvent(row)
		if err != nil {
			l.logger.Warn("skipping unserializable row", "error", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Close releases the underlying file handles.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

// open sets up the (optionally gzip) CSV reader and resolves header columns.
func (l *Loader) open() error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	l.closers = []io.Closer{f}

	var src io.Reader = f
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			l.closeLocked()
			return fmt.Errorf("open gzip: %w", err)
		}
		l.closers = append(l.closers, gz)
		src = gz
	}

	r := csv.NewReader(src)
	// Hand-entered data: tolerate stray quotes and ragged rows.
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		l.closeLocked()
		return fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(columns))
	for i, name := range header {
		index[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	if _, ok := index["EVTYPE"]; !ok {
		l.closeLocked()
		return fmt.Errorf("csv %s has no EVTYPE column", l.path)
	}

	l.reader = r
	l.index = index
	l.logger.Info("csv source opened", "path", l.path, "columns", len(header))
	return nil
}

func (l *Loader) rowToEvent(row []string) (domain.RawEvent, error) {
	rec := domain.RawRecord{
		BeginDate:     l.field(row, "BGN_DATE"),
		State:         l.field(row, "STATE"),
		EventType:     l.field(row, "EVTYPE"),
		Fatalities:    l.field(row, "FATALITIES"),
		Injuries:      l.field(row, "INJURIES"),
		PropDamage:    l.field(row, "PROPDMG"),
		PropDamageExp: l.field(row, "PROPDMGEXP"),
		CropDamage:    l.field(row, "CROPDMG"),
		CropDamageExp: l.field(row, "CROPDMGEXP"),
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return domain.RawEvent{}, fmt.Errorf("serialize csv row: %w", err)
	}
	return domain.RawEvent{Value: value}, nil
}

func (l *Loader) field(row []string, name string) string {
	i, ok := l.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (l *Loader) closeLocked() error {
	var firstErr error
	// Close in reverse: gzip before the file beneath it.
	for i := len(l.closers) - 1; i >= 0; i-- {
		if err := l.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.closers = nil
	return firstErr
}
