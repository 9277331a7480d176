package pums

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NationalCode is the geography code of nation-wide extracts.
const NationalCode = "US"

// Display names used when a lookup has no entry for a code.
const (
	UnknownStateName    = "Unknown state code"
	UnknownNationalName = "Unknown national code"
)

// Record type names keyed on the first character of the folder code.
const (
	PersonRecords  = "individual_people"
	HousingRecords = "housing_units"
)

// DefaultNationalNames maps national tranche sub-codes to display names.
var DefaultNationalNames = map[string]string{
	"USA": "United States first tranche",
	"USB": "United States second tranche",
}

// Lookups holds the code to display-name tables used for table naming.
// Build it once with NewLookups and share it read-only.
type Lookups struct {
	states   map[string]string
	national map[string]string
}

// NewLookups copies the given tables. A nil national table selects
// DefaultNationalNames.
func NewLookups(states, national map[string]string) *Lookups {
	if national == nil {
		national = DefaultNationalNames
	}
	return &Lookups{
		states:   copyMap(states),
		national: copyMap(national),
	}
}

// State returns the display name for a two-letter state code.
func (l *Lookups) State(code string) string {
	if name, ok := l.states[code]; ok {
		return name
	}
	return UnknownStateName
}

// National returns the display name for a national tranche sub-code.
func (l *Lookups) National(code string) string {
	if name, ok := l.national[code]; ok {
		return name
	}
	return UnknownNationalName
}

// StateCount returns the number of known state codes.
func (l *Lookups) StateCount() int {
	return len(l.states)
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// InvalidCodeError reports a source folder whose geography code is neither
// the national marker nor a two-character state code.
type InvalidCodeError struct {
	Folder string
	Code   string
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code %q in folder %q", e.Code, e.Folder)
}

// ResolveName derives the materialized table name of a source extract.
//
// folder is the name of the directory holding the extract, shaped like
// "pums_pCA": the first character after the underscore selects the record
// type and the rest is the geography code. file is the extract's base name;
// it only matters for national extracts, where "psam_pusa.csv" selects
// tranche "USA".
func ResolveName(folder, file string, lookups *Lookups) (string, error) {
	code := segment(folder, 1)
	if code == "" {
		return "", &InvalidCodeError{Folder: folder}
	}

	recordType := HousingRecords
	if strings.EqualFold(code[:1], "p") {
		recordType = PersonRecords
	}
	geo := strings.ToUpper(code[1:])

	var name string
	switch {
	case geo == NationalCode:
		stem := file
		if i := strings.Index(stem, "."); i >= 0 {
			stem = stem[:i]
		}
		sub := segment(stem, 1)
		if sub != "" {
			sub = strings.ToUpper(sub[1:])
		}
		name = lookups.National(sub)
	case len(geo) == 2:
		name = lookups.State(geo)
	default:
		return "", &InvalidCodeError{Folder: folder, Code: geo}
	}

	full := recordType + "_" + strings.ReplaceAll(name, " ", "_")
	return cases.Lower(language.Und).String(full), nil
}

// segment returns the i-th underscore-separated part of s, or "" when s has
// fewer parts.
func segment(s string, i int) string {
	parts := strings.Split(s, "_")
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}
