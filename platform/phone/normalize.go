// Package phone normalizes contact phone numbers before storage.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Leads come in from US mortgage campaigns, so bare national numbers are
// parsed against the US region.
const defaultRegion = "US"

// NormalizeE164 returns the E.164 form of input when it parses as a valid
// number, otherwise the trimmed input verbatim.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
