package domain

import "strings"

// ResolveExponent maps a one-character damage magnitude code to its base-10
// multiplier: H=100, T or K=1000, M=1e6, B=1e9, case-insensitive. Anything
// else, including the empty string, digits, and unrecognized letters,
// resolves to 1 so that a bad code means "no scaling" rather than an error.
func ResolveExponent(code string) float64 {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "H":
		return 100
	case "T", "K":
		return 1_000
	case "M":
		return 1_000_000
	case "B":
		return 1_000_000_000
	default:
		return 1
	}
}
