package pums

import (
	"strings"

	"github.com/leapstack-labs/pumsgen/internal/adapter"
	"github.com/leapstack-labs/pumsgen/internal/dictionary"
)

// ColumnKind distinguishes labeled columns from raw passthrough columns.
type ColumnKind int

const (
	// Passthrough columns are cast to VARCHAR unchanged.
	Passthrough ColumnKind = iota
	// Labeled columns map codes to labels through a CASE and an ENUM cast.
	Labeled
)

func (k ColumnKind) String() string {
	if k == Labeled {
		return "labeled"
	}
	return "passthrough"
}

// ColumnDef is the planned SELECT expression for one source column.
type ColumnDef struct {
	Name  string
	Alias string
	Kind  ColumnKind
	// Mappings holds sanitized code/label pairs in dictionary order.
	// Empty for passthrough columns.
	Mappings []dictionary.Value
}

// EnumValues returns the ENUM value list: every sanitized label in
// dictionary order, duplicates included.
func (c ColumnDef) EnumValues() []string {
	out := make([]string, len(c.Mappings))
	for i, m := range c.Mappings {
		out[i] = m.Label
	}
	return out
}

// SQL renders the column as a SELECT list item without a trailing comma.
func (c ColumnDef) SQL() string {
	if c.Kind == Passthrough {
		return "    " + c.Name + "::VARCHAR AS " + adapter.QuoteIdent(c.Alias)
	}

	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(c.Name)
	for _, m := range c.Mappings {
		b.WriteString("\n\t\tWHEN ")
		b.WriteString(adapter.QuoteLiteral(m.Code))
		b.WriteString(" THEN ")
		b.WriteString(adapter.QuoteLiteral(m.Label))
	}
	b.WriteString("\n\tEND::ENUM (")
	for i, v := range c.EnumValues() {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(adapter.QuoteLiteral(v))
	}
	b.WriteString(") AS ")
	b.WriteString(adapter.QuoteIdent(c.Alias))
	return b.String()
}

// PlanColumns builds one definition per dictionary column present in header,
// in dictionary order. Header columns unknown to the dictionary are skipped.
func PlanColumns(columns []dictionary.Column, header []string) []ColumnDef {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	defs := make([]ColumnDef, 0, len(header))
	for _, col := range columns {
		if _, ok := present[col.Name]; !ok {
			continue
		}
		defs = append(defs, planColumn(col))
	}
	return defs
}

func planColumn(col dictionary.Column) ColumnDef {
	def := ColumnDef{Name: col.Name, Alias: col.Description, Kind: Passthrough}
	if !col.HasValues() || !ShouldLabel(col.Description) {
		return def
	}

	def.Kind = Labeled
	def.Mappings = make([]dictionary.Value, len(col.Values))
	for i, v := range col.Values {
		def.Mappings[i] = dictionary.Value{
			Code:  CleanEnumValue(v.Code),
			Label: CleanEnumValue(v.Label),
		}
	}
	return def
}
