// Package report aggregates cleaned events per canonical category and ranks
// categories for the health and financial report views.
package report

import (
	"sort"
	"sync"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// CategorySummary holds the aggregated impact metrics for one canonical
// category. Summaries are immutable once returned from Summaries().
type CategorySummary struct {
	Category          domain.Category `json:"category"`
	Events            int             `json:"events"`
	Fatalities        int             `json:"fatalities"`
	Injuries          int             `json:"injuries"`
	PropertyDamageUSD float64         `json:"property_damage_usd"`
	CropDamageUSD     float64         `json:"crop_damage_usd"`
}

// Accumulator groups cleaned events by category and sums per-category
// metrics. Unclassifiable events are counted but excluded from summaries.
// Safe for concurrent use; accumulation itself is sequential per Add call so
// float sums stay reproducible for a given input order.
type Accumulator struct {
	mu             sync.Mutex
	groups         map[domain.Category]*CategorySummary
	total          int
	unclassifiable int
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{groups: make(map[domain.Category]*CategorySummary)}
}

// Add folds one cleaned event into its category group.
func (a *Accumulator) Add(e domain.CleanedEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	if e.Category == domain.CategoryUnclassifiable {
		a.unclassifiable++
		return
	}

	g, ok := a.groups[e.Category]
	if !ok {
		g = &CategorySummary{Category: e.Category}
		a.groups[e.Category] = g
	}
	g.Events++
	g.Fatalities += e.Fatalities
	g.Injuries += e.Injuries
	g.PropertyDamageUSD += e.PropertyDamageUSD
	g.CropDamageUSD += e.CropDamageUSD
}

// Summaries returns a snapshot of all category summaries, sorted by category
// name so output is deterministic regardless of map iteration order.
func (a *Accumulator) Summaries() []CategorySummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]CategorySummary, 0, len(a.groups))
	for _, g := range a.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Counts returns the total number of events added and how many of those were
// unclassifiable.
func (a *Accumulator) Counts() (total, unclassifiable int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total, a.unclassifiable
}
