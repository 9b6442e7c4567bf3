// Package domain models historical NOAA Storm Events records and the rules
// that clean them for impact reporting.
//
// # Data Source
//
// Records originate from the NOAA Storm Events database (1950 onward), a
// single large CSV maintained by hand at NWS offices for decades. The event
// type column (EVTYPE) is free text: the same phenomenon appears under
// hundreds of spellings, abbreviations, and compound phrases ("TSTM WIND",
// "THUNDERSTORM WINDS/HAIL", "Tstm Wind (G45)"), alongside outright
// non-events ("Summary of May 9-10", "No Severe Weather", "MONTHLY
// PRECIPITATION"). Roughly 900 distinct raw strings collapse into about 40
// canonical categories.
//
// # Category Normalization
//
// [NormalizeCategory] cleans a raw EVTYPE in three stages:
//
//  1. Uppercase, trim, and collapse every run of non-alphanumeric characters
//     into a single space, so punctuation separates tokens but never merges
//     or duplicates them.
//  2. Reject entry errors by anchored prefix (SUMMARY, MONTHLY, "NO ", NONE,
//     SEI, APACHE, SOUTH). These are data-entry artifacts, not events, and
//     map to [CategoryUnclassifiable].
//  3. Run the ordered rule cascade: each rule is a pattern and a canonical
//     label, and a match overwrites the entire working string before the
//     next rule is evaluated. Rule order is load-bearing. Specific anchored
//     rules come first, compound synonym rules in the middle, broad
//     catch-alls last. Because later rules re-scan the replaced value, a
//     label produced early can be demoted by a later, broader rule. The
//     WIND and SNOW patterns intentionally appear twice at different
//     positions with different target labels; do not deduplicate them,
//     classification outcomes depend on the overlap.
//
// The final cascade rule matches any string that still begins with two
// consecutive uppercase letters, i.e. anything that survived untouched in
// its raw uppercased form, and labels it [CategoryOther]. Canonical labels
// are mixed case, so they never trip this rule. Strings that match nothing
// at all ("123", "K") are unclassifiable.
//
// Normalization is total: every input, including the empty string, yields
// exactly one category and never an error. It is NOT idempotent:
// NormalizeCategory("BEACH EROSION") yields "Coastal Erosion", but feeding
// that label back in yields "Coastal Storm" via the earlier COASTAL rule.
// This mirrors the cascading-overwrite semantics and is covered by tests.
//
// # Damage Exponent Codes
//
// Property and crop damage figures are stored as a magnitude plus a
// one-character base-10 multiplier code: H=hundreds, K or T=thousands,
// M=millions, B=billions. Decades of hand entry left the column full of
// garbage ("+", "?", digits, blanks); [ResolveExponent] treats anything
// unrecognized as a multiplier of 1 rather than failing, so a bad code
// degrades to "no scaling" instead of dropping the record.
//
// # Error Handling
//
// There is no fatal path in this package. Malformed event types become
// Unclassifiable and are excluded from aggregation; malformed counts and
// magnitudes contribute zero. Correctness for this dataset means "never
// crash, always classify or exclude".
package domain
