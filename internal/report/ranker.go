package report

import "sort"

// Severity score weights. Any monotonic combination preserving "more harm,
// higher rank" satisfies the contract; fatalities dominate.
const (
	fatalityWeight  = 0.5
	injuryWeight    = 0.3
	frequencyWeight = 0.2
	severityScale   = 100
)

// SeverityRank is the composite presentation score for one category.
type SeverityRank struct {
	Category CategorySummary `json:"summary"`
	Score    float64         `json:"score"` // 0-100
}

// HealthView filters out categories with no human impact and orders the rest
// by fatalities descending, breaking ties by injuries then category name.
func HealthView(summaries []CategorySummary) []CategorySummary {
	view := filter(summaries, func(s CategorySummary) bool {
		return s.Fatalities > 0 || s.Injuries > 0
	})
	sort.SliceStable(view, func(i, j int) bool {
		if view[i].Fatalities != view[j].Fatalities {
			return view[i].Fatalities > view[j].Fatalities
		}
		if view[i].Injuries != view[j].Injuries {
			return view[i].Injuries > view[j].Injuries
		}
		return view[i].Category < view[j].Category
	})
	return view
}

// FinancialView filters out categories with no economic impact and orders
// the rest by property damage descending, breaking ties by crop damage then
// category name.
func FinancialView(summaries []CategorySummary) []CategorySummary {
	view := filter(summaries, func(s CategorySummary) bool {
		return s.PropertyDamageUSD > 0 || s.CropDamageUSD > 0
	})
	sort.SliceStable(view, func(i, j int) bool {
		if view[i].PropertyDamageUSD != view[j].PropertyDamageUSD {
			return view[i].PropertyDamageUSD > view[j].PropertyDamageUSD
		}
		if view[i].CropDamageUSD != view[j].CropDamageUSD {
			return view[i].CropDamageUSD > view[j].CropDamageUSD
		}
		return view[i].Category < view[j].Category
	})
	return view
}

// TopN returns the first n entries of an ordered view. n <= 0 or n beyond
// the view length returns the full view.
func TopN(view []CategorySummary, n int) []CategorySummary {
	if n <= 0 || n >= len(view) {
		return view
	}
	return view[:n]
}

// SeverityScores combines max-normalized fatalities, injuries, and event
// frequency into a single 0-100 score per category, sorted descending.
// Categories with no human impact at all are excluded.
func SeverityScores(summaries []CategorySummary) []SeverityRank {
	harmed := filter(summaries, func(s CategorySummary) bool {
		return s.Fatalities > 0 || s.Injuries > 0
	})
	if len(harmed) == 0 {
		return nil
	}

	var maxFatal, maxInjury, maxEvents int
	for _, s := range harmed {
		maxFatal = max(maxFatal, s.Fatalities)
		maxInjury = max(maxInjury, s.Injuries)
		maxEvents = max(maxEvents, s.Events)
	}

	ranks := make([]SeverityRank, 0, len(harmed))
	for _, s := range harmed {
		score := fatalityWeight*ratio(s.Fatalities, maxFatal) +
			injuryWeight*ratio(s.Injuries, maxInjury) +
			frequencyWeight*ratio(s.Events, maxEvents)
		ranks = append(ranks, SeverityRank{Category: s, Score: score * severityScale})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Score != ranks[j].Score {
			return ranks[i].Score > ranks[j].Score
		}
		return ranks[i].Category.Category < ranks[j].Category.Category
	})
	return ranks
}

func filter(summaries []CategorySummary, keep func(CategorySummary) bool) []CategorySummary {
	out := make([]CategorySummary, 0, len(summaries))
	for _, s := range summaries {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func ratio(v, maxV int) float64 {
	if maxV == 0 {
		return 0
	}
	return float64(v) / float64(maxV)
}
