package pums

import "strings"

// excludedKeywords mark numeric, continuous or identifier-like columns that
// stay raw text even when the dictionary lists discrete values for them.
var excludedKeywords = []string{
	"weight",
	"identifier",
	"number",
	"age",
	"income",
	"time",
	"hours",
	"weeks",
	"puma",
	"total",
	"fee",
	"cost",
	"amount",
	"rent",
	"value",
	"taxes",
}

// ShouldLabel reports whether a column with the given description should be
// mapped to an ENUM of labels. Matching is a case-insensitive substring test;
// a description mentioning "flag" is always eligible.
func ShouldLabel(description string) bool {
	desc := strings.ToLower(description)
	if strings.Contains(desc, "flag") {
		return true
	}
	for _, kw := range excludedKeywords {
		if strings.Contains(desc, kw) {
			return false
		}
	}
	return true
}
