// Package sanitize strips markup from free-text fields before they are
// persisted. Contact values arrive from chat input and a model extraction
// step, so anything angle-bracketed is treated as hostile.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	entities   = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// Text returns s with HTML tags removed and surrounding whitespace trimmed.
// Entities are decoded between the two strip passes so an encoded tag cannot
// survive the first one.
func Text(s string) string {
	out := tagPattern.ReplaceAllString(s, "")
	out = entities.Replace(out)
	out = tagPattern.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// TextPtr applies Text through an optional pointer, preserving nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Text(*s)
	return &out
}
