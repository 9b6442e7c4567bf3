package domain

import (
	"regexp"
	"strings"
)

// nonTokenRe matches a maximal run of characters outside [A-Z0-9_], applied
// after uppercasing. Each run becomes a single space, so punctuation acts as
// a separator and never merges two words or leaves double spaces.
var nonTokenRe = regexp.MustCompile(`[^A-Z0-9_]+`)

// junkPrefixes are anchored entry-error markers: strings a NWS office typed
// into EVTYPE that describe no event at all (summaries, monthly rollups,
// "no severe weather", county names). Prefix match only, not containment.
var junkPrefixes = []string{
	"SUMMARY",
	"MONTHLY",
	"NO ",
	"NONE",
	"SEI",
	"APACHE",
	"SOUTH",
}

// rule pairs a pattern with the canonical label that replaces the entire
// working string on match.
type rule struct {
	pattern *regexp.Regexp
	label   Category
}

// cascade is the ordered rule list. Order is semantically load-bearing:
// each match overwrites the whole working string and the scan continues, so
// later broad rules see already-canonicalized labels. Two overlaps are
// deliberate and must not be "fixed":
//
//   - WIND appears twice: the anchored "^HIGH WIND" rule assigns High Wind,
//     which the late broad WIND rule re-matches and demotes to Wind in the
//     same pass.
//   - SNOW appears twice: "LAKE EFFECT SNOW" assigns Lake Effect Snow, which
//     the late broad SNOW rule demotes to Snow.
//
// All patterns are case-insensitive except the final catch-all, which is
// case-sensitive so it fires only on strings still in raw uppercase form,
// never on a mixed-case canonical label.
var cascade = []rule{
	// Specific, mostly anchored rules.
	{regexp.MustCompile(`(?i)^RECORD (HIGH|WARM|HEAT)`), CategoryHeat},
	{regexp.MustCompile(`(?i)^RECORD (LOW|COLD|COOL|SNOW)`), CategoryCold},
	{regexp.MustCompile(`(?i)^AVALAN`), CategoryAvalanche},
	{regexp.MustCompile(`(?i)^BLIZZ`), CategoryBlizzard},
	{regexp.MustCompile(`(?i)VOLCAN`), CategoryVolcanicAsh},
	{regexp.MustCompile(`(?i)TSUNAMI`), CategoryTsunami},
	{regexp.MustCompile(`(?i)DAM (BREAK|FAILURE)`), CategoryDamFailure},
	{regexp.MustCompile(`(?i)RIP CURRENT`), CategoryRipCurrent},
	{regexp.MustCompile(`(?i)WATER ?SPOUT`), CategoryWaterspout},
	{regexp.MustCompile(`(?i)FUNNEL`), CategoryFunnelCloud},
	{regexp.MustCompile(`(?i)TORNADO|TORNDAO|GUSTNADO|LANDSPOUT`), CategoryTornado},
	{regexp.MustCompile(`(?i)HURRICANE|TYPHOON`), CategoryHurricane},
	{regexp.MustCompile(`(?i)TROPICAL STORM`), CategoryTropicalStorm},
	{regexp.MustCompile(`(?i)TROPICAL DEPRESS`), CategoryTropicalDepression},

	// Compound synonym rules, substring-anywhere. The thunderstorm rule
	// must precede the wind rule: "TSTM WIND" is a thunderstorm report.
	{regexp.MustCompile(`(?i)THUNDER[A-Z ]*ST|TSTM`), CategoryThunderstorm},
	{regexp.MustCompile(`(?i)MICROBURST|DOWNBURST`), CategoryMicroburst},
	{regexp.MustCompile(`(?i)LIGHTNING|LIGNTNING|LIGHTING`), CategoryLightning},
	{regexp.MustCompile(`(?i)HAIL`), CategoryHail},
	{regexp.MustCompile(`(?i)STORM SURGE|SURGE`), CategoryStormSurge},
	{regexp.MustCompile(`(?i)COASTAL`), CategoryCoastalStorm},
	{regexp.MustCompile(`(?i)EROSI`), CategoryCoastalErosion},
	{regexp.MustCompile(`(?i)(HIGH|HEAVY|HAZARDOUS|ROUGH) SURF|^SURF`), CategoryHighSurf},
	{regexp.MustCompile(`(?i)MARINE (ACCIDENT|MISHAP)`), CategoryMarineAccident},
	{regexp.MustCompile(`(?i)(HEAVY|HIGH|ROUGH) SEAS|HIGH (WATER|TIDES|WAVES)|ROGUE WAVE|HEAVY SWELLS`), CategoryHeavySeas},
	{regexp.MustCompile(`(?i)TIDE`), CategoryTide},
	{regexp.MustCompile(`(?i)^HIGH WIND`), CategoryHighWind},
	{regexp.MustCompile(`(?i)LAKE EFFECT SNOW|LAKE SNOW`), CategoryLakeEffectSnow},
	{regexp.MustCompile(`(?i)HEAT|HOT|WARM|HYPERTHERM|HIGH TEMP`), CategoryHeat},
	{regexp.MustCompile(`(?i)FROST`), CategoryFrost},
	{regexp.MustCompile(`(?i)SLEET`), CategorySleet},
	{regexp.MustCompile(`(?i)COLD|ICE|ICY|WET|WINT|FREEZ|CHILL|COOL|HYPOTHERM|GLAZE|LOW TEMP|EXPOSURE`), CategoryCold},
	{regexp.MustCompile(`(?i)SNOW`), CategorySnow},

	// Broad catch-alls. These only see strings that survived everything above.
	{regexp.MustCompile(`(?i)FLOOD|FLD|URBAN|STREAM`), CategoryFlood},
	{regexp.MustCompile(`(?i)DROWN`), CategoryDrowning},
	{regexp.MustCompile(`(?i)DROUGHT|DRIEST|DRY`), CategoryDrought},
	{regexp.MustCompile(`(?i)RAIN|PRECIP|SHOWER`), CategoryRain},
	{regexp.MustCompile(`(?i)FOG|VOG`), CategoryFog},
	{regexp.MustCompile(`(?i)LANDSL|MUD ?SLIDE|ROCK SLIDE|DEBRIS FLOW`), CategoryLandslide},
	{regexp.MustCompile(`(?i)SMOKE|FIRE`), CategoryFire},
	{regexp.MustCompile(`(?i)WIND|WND|DUST`), CategoryWind},

	// Universal catch-all: anything still starting with two consecutive
	// uppercase letters is a plausible event token that matched nothing.
	// Case-sensitive on purpose; canonical labels are mixed case.
	{regexp.MustCompile(`^[A-Z]{2}`), CategoryOther},
}

// NormalizeCategory maps a raw free-text event-type label to a canonical
// category. It is total: every input, including the empty string, yields
// exactly one category. It is not idempotent; see the package documentation.
func NormalizeCategory(raw string) Category {
	working := collapseToTokens(raw)
	if working == "" || isEntryError(working) {
		return CategoryUnclassifiable
	}

	fired := false
	for _, r := range cascade {
		if r.pattern.MatchString(working) {
			working = string(r.label)
			fired = true
		}
	}
	if !fired {
		// Residue like "123" or a lone letter: no plausible category token.
		return CategoryUnclassifiable
	}
	return Category(working)
}

// collapseToTokens uppercases and trims the label, then reduces every run of
// non-alphanumeric characters to a single space.
func collapseToTokens(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = nonTokenRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// isEntryError reports whether a normalized label is a known data-entry
// artifact rather than an event.
func isEntryError(s string) bool {
	for _, p := range junkPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
