package domain

import (
	"context"
	"time"
)

// RawRecord represents the flat JSON structure produced by the collector,
// mirroring the NOAA Storm Events CSV columns. All fields are strings
// because the source data is too messy to parse at the transport boundary;
// parsing happens in CleanEvent with parse-or-zero semantics.
type RawRecord struct {
	BeginDate     string `json:"BGN_DATE"`
	State         string `json:"STATE"`
	EventType     string `json:"EVTYPE"`
	Fatalities    string `json:"FATALITIES"`
	Injuries      string `json:"INJURIES"`
	PropDamage    string `json:"PROPDMG"`
	PropDamageExp string `json:"PROPDMGEXP"`
	CropDamage    string `json:"CROPDMG"`
	CropDamageExp string `json:"CROPDMGEXP"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// CleanedEvent is the per-row output of the transform stage: a canonical
// category plus parsed impact metrics with damage figures scaled to USD.
// Cleaned events are consumed immediately by the accumulator and optionally
// published for downstream consumers; they are not retained.
type CleanedEvent struct {
	Category          Category  `json:"category"`
	RawEventType      string    `json:"raw_event_type,omitempty"`
	State             string    `json:"state,omitempty"`
	BeginDate         string    `json:"begin_date,omitempty"`
	Fatalities        int       `json:"fatalities"`
	Injuries          int       `json:"injuries"`
	PropertyDamageUSD float64   `json:"property_damage_usd"`
	CropDamageUSD     float64   `json:"crop_damage_usd"`
	ProcessedAt       time.Time `json:"processed_at"`
}
