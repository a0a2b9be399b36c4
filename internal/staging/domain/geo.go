package domain

import "strings"

// usStates holds the USPS two-letter codes accepted as lead geography,
// the fifty states plus DC.
var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
	"DC": {},
}

// NormalizeState uppercases and validates a two-letter US state code.
// Unrecognized values are rejected so free-form geography never reaches the
// consumer's routing metadata.
func NormalizeState(s string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := usStates[code]; !ok {
		return "", false
	}
	return code, true
}
