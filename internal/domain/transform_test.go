package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawEvent(t *testing.T) {
	t.Run("storm record", func(t *testing.T) {
		data := []byte(`{"BGN_DATE":"4/27/2011 0:00:00","STATE":"AL","EVTYPE":"TORNADO","FATALITIES":"23","INJURIES":"150","PROPDMG":"1.5","PROPDMGEXP":"B","CROPDMG":"42.5","CROPDMGEXP":"K"}`)
		raw := RawEvent{Value: data}

		rec, err := ParseRawEvent(raw)
		require.NoError(t, err)

		assert.Equal(t, "TORNADO", rec.EventType)
		assert.Equal(t, "AL", rec.State)
		assert.Equal(t, "23", rec.Fatalities)
		assert.Equal(t, "1.5", rec.PropDamage)
		assert.Equal(t, "B", rec.PropDamageExp)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		raw := RawEvent{Value: []byte("{invalid json")}
		_, err := ParseRawEvent(raw)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw event")
	})

	t.Run("empty JSON", func(t *testing.T) {
		rec, err := ParseRawEvent(RawEvent{Value: []byte("{}")})
		require.NoError(t, err)
		assert.Equal(t, RawRecord{}, rec)
	})
}

func TestCleanEvent(t *testing.T) {
	frozen := time.Date(2011, time.November, 30, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	t.Run("full record", func(t *testing.T) {
		rec := RawRecord{
			BeginDate:     "4/27/2011 0:00:00",
			State:         "AL",
			EventType:     "TORNADO",
			Fatalities:    "23",
			Injuries:      "150",
			PropDamage:    "1.5",
			PropDamageExp: "B",
			CropDamage:    "42.5",
			CropDamageExp: "K",
		}

		want := CleanedEvent{
			Category:          CategoryTornado,
			RawEventType:      "TORNADO",
			State:             "AL",
			BeginDate:         "4/27/2011 0:00:00",
			Fatalities:        23,
			Injuries:          150,
			PropertyDamageUSD: 1.5e9,
			CropDamageUSD:     42_500,
			ProcessedAt:       frozen,
		}
		if diff := cmp.Diff(want, CleanEvent(rec)); diff != "" {
			t.Errorf("CleanEvent mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("magnitude 5 with K scales to 5000", func(t *testing.T) {
		cleaned := CleanEvent(RawRecord{EventType: "HAIL", PropDamage: "5", PropDamageExp: "K"})
		assert.Equal(t, 5_000.0, cleaned.PropertyDamageUSD)
	})

	t.Run("magnitude 5 with empty exponent stays 5", func(t *testing.T) {
		cleaned := CleanEvent(RawRecord{EventType: "HAIL", PropDamage: "5"})
		assert.Equal(t, 5.0, cleaned.PropertyDamageUSD)
	})

	t.Run("missing magnitude contributes zero regardless of code", func(t *testing.T) {
		cleaned := CleanEvent(RawRecord{EventType: "HAIL", PropDamageExp: "M"})
		assert.Zero(t, cleaned.PropertyDamageUSD)
	})

	t.Run("unrecognized exponent degrades to no scaling", func(t *testing.T) {
		cleaned := CleanEvent(RawRecord{EventType: "HAIL", CropDamage: "7", CropDamageExp: "?"})
		assert.Equal(t, 7.0, cleaned.CropDamageUSD)
	})

	t.Run("malformed counts parse to zero", func(t *testing.T) {
		cleaned := CleanEvent(RawRecord{EventType: "HEAT", Fatalities: "many", Injuries: "-3"})
		assert.Zero(t, cleaned.Fatalities)
		assert.Zero(t, cleaned.Injuries)
	})

	t.Run("decimal count truncates", func(t *testing.T) {
		cleaned := CleanEvent(RawRecord{EventType: "HEAT", Fatalities: "2.0"})
		assert.Equal(t, 2, cleaned.Fatalities)
	})

	t.Run("junk event type is unclassifiable, metrics still parsed", func(t *testing.T) {
		cleaned := CleanEvent(RawRecord{EventType: "Summary of April 12", Fatalities: "1"})
		assert.Equal(t, CategoryUnclassifiable, cleaned.Category)
		assert.Equal(t, 1, cleaned.Fatalities)
	})
}
