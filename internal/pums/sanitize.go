package pums

import "strings"

// replacement is one step of an ordered rewrite chain.
type replacement struct {
	old string
	new string
}

// enumValueRules are applied in order. Apostrophes go first so no label can
// terminate a SQL string literal early, and "N/A" is rewritten before the
// general slash rule would turn it into "N or A".
var enumValueRules = []replacement{
	{old: "'", new: ""},
	{old: "N/A", new: "Not applicable"},
	{old: "/", new: " or "},
	{old: "(", new: "- "},
	{old: ")", new: ""},
}

// CleanEnumValue turns a raw dictionary code or label into a token that is
// safe to embed in a single-quoted SQL literal and in an ENUM declaration.
func CleanEnumValue(value string) string {
	for _, r := range enumValueRules {
		value = strings.ReplaceAll(value, r.old, r.new)
	}
	return value
}
