package pums

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pumsgen/internal/adapter"
)

// Statement is everything needed to render one generated SQL model.
type Statement struct {
	// Name is the materialized table name.
	Name string
	Year string
	// Source is the base name of the source extract, without extension.
	Source string
	// SourcePath is the path read by the FROM clause.
	SourcePath string
	// OutputVar is the templating variable holding the output location.
	OutputVar string
	// Generator is named in the provenance comment.
	Generator string
	Columns   []ColumnDef
}

// ConfigDirective returns the templating directive that makes the model an
// external parquet file.
func (s Statement) ConfigDirective() string {
	return fmt.Sprintf(
		"{{ config(materialized='external', location=var('%s') + '/acs_pums_%s_%s.parquet') }}",
		s.OutputVar, s.Name, s.Year,
	)
}

// Select renders the bare SELECT ... FROM read_csv(...) query.
func (s Statement) Select() string {
	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs[i] = c.SQL()
	}

	var b strings.Builder
	b.WriteString("SELECT\n")
	b.WriteString(strings.Join(defs, ",\n"))
	b.WriteString("\nFROM read_csv(")
	b.WriteString(adapter.QuoteLiteral(s.SourcePath))
	b.WriteString(", \n")
	b.WriteString("              parallel=False,\n")
	b.WriteString("              all_varchar=True,\n")
	b.WriteString("              auto_detect=True)\n")
	return b.String()
}

// SQL renders the complete model document.
func (s Statement) SQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- SQL transformation for %s generated by %s\n", s.Source, s.Generator)
	b.WriteString(s.ConfigDirective())
	b.WriteString("\n\n")
	b.WriteString(s.Select())
	return b.String()
}

// PortablePath rewrites path relative to the home directory of user:
// everything up to and including the first "<user>" directory becomes "~".
// The path is returned unchanged when user is empty or no directory of the
// path is named user.
func PortablePath(path, user string) string {
	if user == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, user+"/"); ok {
		return "~/" + rest
	}
	marker := "/" + user + "/"
	i := strings.Index(path, marker)
	if i < 0 {
		return path
	}
	return "~/" + path[i+len(marker):]
}
