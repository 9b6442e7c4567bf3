package csvfile

import (
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `STATE,BGN_DATE,EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP
AL,"4/27/2011 0:00:00",TORNADO,23,150,1.5,B,42.5,K
TX,"6/1/1998 0:00:00",TSTM WIND,0,2,5,K,,
OK,"7/4/1995 0:00:00","Summary of July 4",0,0,,,,
`

func writeTestCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_ExtractBatch(t *testing.T) {
	path := writeTestCSV(t, "storm.csv", testCSV)
	l := NewLoader(path, slog.Default())
	defer l.Close()

	events, err := l.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 3)

	rec, err := domain.ParseRawEvent(events[0])
	require.NoError(t, err)
	assert.Equal(t, "TORNADO", rec.EventType)
	assert.Equal(t, "AL", rec.State)
	assert.Equal(t, "23", rec.Fatalities)
	assert.Equal(t, "1.5", rec.PropDamage)
	assert.Equal(t, "B", rec.PropDamageExp)

	// Drained source reports EOF.
	_, err = l.ExtractBatch(context.Background(), 10)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLoader_BatchSizeLimits(t *testing.T) {
	path := writeTestCSV(t, "storm.csv", testCSV)
	l := NewLoader(path, slog.Default())
	defer l.Close()

	first, err := l.ExtractBatch(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := l.ExtractBatch(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestLoader_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storm.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testCSV))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	l := NewLoader(path, slog.Default())
	defer l.Close()

	events, err := l.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestLoader_MissingEVTYPEColumn(t *testing.T) {
	path := writeTestCSV(t, "bad.csv", "STATE,FATALITIES\nAL,3\n")
	l := NewLoader(path, slog.Default())

	_, err := l.ExtractBatch(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EVTYPE")
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader("/does/not/exist.csv", slog.Default())
	_, err := l.ExtractBatch(context.Background(), 10)
	require.Error(t, err)
}

func TestLoader_RaggedRowsAbsorbed(t *testing.T) {
	// Second data row is short; missing trailing fields become empty strings.
	csv := "EVTYPE,FATALITIES,PROPDMG,PROPDMGEXP\nHAIL,0,25,K\nHEAT,9\n"
	path := writeTestCSV(t, "ragged.csv", csv)
	l := NewLoader(path, slog.Default())
	defer l.Close()

	events, err := l.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	rec, err := domain.ParseRawEvent(events[1])
	require.NoError(t, err)
	assert.Equal(t, "HEAT", rec.EventType)
	assert.Empty(t, rec.PropDamage)
}

// fakeExtractor counts how many times it is drained.
type fakeExtractor struct {
	drains  atomic.Int64
	served  bool
	payload []domain.RawEvent
}

func (f *fakeExtractor) ExtractBatch(_ context.Context, _ int) ([]domain.RawEvent, error) {
	if f.served {
		return nil, io.EOF
	}
	f.served = true
	f.drains.Add(1)
	return f.payload, nil
}

func TestCachedExtractor_ReadsOnce(t *testing.T) {
	inner := &fakeExtractor{payload: []domain.RawEvent{{Value: []byte("{}")}}}
	cached := NewCachedExtractor(inner, slog.Default())

	first, err := cached.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := cached.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), inner.drains.Load())
}
