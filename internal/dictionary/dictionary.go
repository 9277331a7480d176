// Package dictionary loads the PUMS data dictionary.
//
// The dictionary is a JSON document keyed by column identifier. Each entry
// carries a Description and, for coded columns, a Values object mapping raw
// codes to display labels. Document order is significant: it decides the
// order of the generated SELECT list, of the CASE arms and of the ENUM values,
// so the document is walked token by token rather than decoded into Go maps.
//
// A repeated key keeps its first position and takes its last value, the way
// an ordered JSON object loader treats it. A null Description or Values is
// treated as absent.
package dictionary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StateColumn is the dictionary entry whose Values hold "Name/Code" pairs
// for every state.
const StateColumn = "ST"

// Value is one code to label mapping of a coded column.
type Value struct {
	Code  string
	Label string
}

// Column is one dictionary entry.
type Column struct {
	Name        string
	Description string
	// Values is nil when the entry has no Values object.
	Values []Value
}

// HasValues reports whether the column lists at least one code.
func (c Column) HasValues() bool {
	return len(c.Values) > 0
}

// Dictionary is the immutable, ordered data dictionary for one survey year.
type Dictionary struct {
	columns []Column
	index   map[string]int
}

func newDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// put stores col, replacing an earlier entry of the same name in place.
func (d *Dictionary) put(col Column) {
	if i, ok := d.index[col.Name]; ok {
		d.columns[i] = col
		return
	}
	d.index[col.Name] = len(d.columns)
	d.columns = append(d.columns, col)
}

// valueSet accumulates the Values of one column in first-seen code order.
type valueSet struct {
	values []Value
	index  map[string]int
}

func newValueSet() *valueSet {
	return &valueSet{values: []Value{}, index: make(map[string]int)}
}

func (s *valueSet) put(code, label string) {
	if i, ok := s.index[code]; ok {
		s.values[i].Label = label
		return
	}
	s.index[code] = len(s.values)
	s.values = append(s.values, Value{Code: code, Label: label})
}

// Load reads and decodes the dictionary document at path. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a user-provided CLI argument
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	parse := Parse
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parse = ParseYAML
	}

	d, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dictionary %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a JSON dictionary document.
func Parse(data []byte) (*Dictionary, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty document")
	}
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("expected an object at the top level, got %s", tokenKind(tok))
	}

	d := newDictionary()
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		col, err := decodeColumn(dec, name)
		if err != nil {
			return nil, err
		}
		d.put(col)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after the top-level object")
	}
	return d, nil
}

func decodeColumn(dec *json.Decoder, name string) (Column, error) {
	tok, err := dec.Token()
	if err != nil {
		return Column{}, err
	}
	if tok != json.Delim('{') {
		return Column{}, fmt.Errorf("column %s: expected an object, got %s", name, tokenKind(tok))
	}

	col := Column{Name: name, Description: name}
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return Column{}, err
		}
		switch key {
		case "Description":
			tok, err := dec.Token()
			if err != nil {
				return Column{}, err
			}
			switch v := tok.(type) {
			case nil:
				col.Description = name
			case string:
				col.Description = v
			default:
				return Column{}, fmt.Errorf("column %s: Description must be a string, got %s", name, tokenKind(tok))
			}
		case "Values":
			values, err := decodeValues(dec, name)
			if err != nil {
				return Column{}, err
			}
			col.Values = values
		default:
			if err := skipValue(dec); err != nil {
				return Column{}, err
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return Column{}, err
	}
	return col, nil
}

func decodeValues(dec *json.Decoder, name string) ([]Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("column %s: Values must be an object, got %s", name, tokenKind(tok))
	}

	set := newValueSet()
	for dec.More() {
		code, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		label, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("column %s: label for code %q must be a string, got %s", name, code, tokenKind(tok))
		}
		set.put(code, label)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return set.values, nil
}

// objectKey reads the next object key. The decoder only yields strings in key
// position, so anything else means the document ended early.
func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected an object key, got %s", tokenKind(tok))
	}
	return key, nil
}

// skipValue consumes one complete value, nested or not.
func skipValue(dec *json.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			default:
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

func tokenKind(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return "object"
		case '[':
			return "array"
		default:
			return "end of " + string(v)
		}
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}

// Columns returns the entries in document order.
func (d *Dictionary) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Column looks up an entry by identifier.
func (d *Dictionary) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.columns)
}

// StateNames builds the state code to state name table from the ST entry.
// Labels have the shape "California/CA". Labels that do not hold exactly one
// slash, or have an empty side, are ignored, since the name ends up in file
// paths. A dictionary without an ST entry yields an empty table.
func (d *Dictionary) StateNames() map[string]string {
	names := make(map[string]string)
	st, ok := d.Column(StateColumn)
	if !ok {
		return names
	}
	for _, v := range st.Values {
		name, code, ok := strings.Cut(v.Label, "/")
		if !ok || strings.Contains(code, "/") {
			continue
		}
		name = strings.TrimSpace(name)
		code = strings.ToUpper(strings.TrimSpace(code))
		if name == "" || code == "" {
			continue
		}
		names[code] = name
	}
	return names
}

// ParseYear extracts the survey year from a dictionary file name: the last
// underscore-separated segment of the base name, before the first dot.
//
//	PUMS_Data_Dictionary_2022.json -> 2022
func ParseYear(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	if i := strings.LastIndex(base, "_"); i >= 0 {
		return base[i+1:]
	}
	return base
}
