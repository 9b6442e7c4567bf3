package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseRawEvent deserializes a RawEvent's value into a RawRecord.
// It expects the flat CSV-style JSON produced by the collector service.
func ParseRawEvent(raw RawEvent) (RawRecord, error) {
	var rec RawRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return RawRecord{}, fmt.Errorf("parse raw event: %w", err)
	}
	return rec, nil
}

// CleanEvent transforms one raw record into a cleaned event: the event type
// is normalized to a canonical category, counts are parsed with parse-or-zero
// semantics, and damage figures are scaled by their exponent codes. The
// function is stateless and has no ordering dependency between rows.
func CleanEvent(rec RawRecord) CleanedEvent {
	return CleanedEvent{
		Category:          NormalizeCategory(rec.EventType),
		RawEventType:      rec.EventType,
		State:             rec.State,
		BeginDate:         rec.BeginDate,
		Fatalities:        parseCountOrZero(rec.Fatalities),
		Injuries:          parseCountOrZero(rec.Injuries),
		PropertyDamageUSD: scaleDamage(rec.PropDamage, rec.PropDamageExp),
		CropDamageUSD:     scaleDamage(rec.CropDamage, rec.CropDamageExp),
		ProcessedAt:       clock.Now(),
	}
}

// parseCountOrZero parses a non-negative integer count, returning 0 for
// anything malformed or negative. Counts sometimes arrive as decimals
// ("2.0"), so it falls back to float parsing before giving up.
func parseCountOrZero(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

// scaleDamage multiplies a damage magnitude by its resolved exponent
// multiplier. A missing or malformed magnitude contributes zero; a missing
// or unrecognized exponent code leaves the magnitude unscaled.
func scaleDamage(magnitude, code string) float64 {
	magnitude = strings.TrimSpace(magnitude)
	if magnitude == "" {
		return 0
	}
	v, err := strconv.ParseFloat(magnitude, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v * ResolveExponent(code)
}
