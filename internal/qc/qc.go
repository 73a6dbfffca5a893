// Package qc runs advisory quality checks over assembled tables and renders
// them as a Markdown report. Checks never change or block output.
package qc

import (
	"github.com/a3tai/parsingtool/internal/schema"
)

// Report is the result of checking one input file.
type Report struct {
	Source         string   `json:"source"`
	MissingColumns []string `json:"missing_columns"`
	InvalidGrades  []int    `json:"invalid_grades"`
	InvalidSizes   []int    `json:"invalid_sizes"`
}

// OK reports whether no check fired.
func (r Report) OK() bool {
	return len(r.MissingColumns) == 0 && len(r.InvalidGrades) == 0 && len(r.InvalidSizes) == 0
}

// Validate checks t against the Export schema and tags the report with
// source.
func Validate(t schema.Table, source string) Report {
	return Report{
		Source:         source,
		MissingColumns: missingColumns(t),
		InvalidGrades:  invalidGrades(t),
		InvalidSizes:   invalidSizes(t),
	}
}

func missingColumns(t schema.Table) []string {
	var missing []string
	for _, c := range schema.Export.Columns {
		if !t.Schema.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// invalidGrades returns the indices of rows whose non-empty Grade is outside
// the allowed set.
func invalidGrades(t schema.Table) []int {
	if !t.Schema.Has("Grade") {
		return nil
	}
	var bad []int
	for i, r := range t.Rows {
		if g := r.Get("Grade"); g != "" && !schema.IsValidGrade(g) {
			bad = append(bad, i)
		}
	}
	return bad
}

// invalidSizes has no rules yet; it keeps the report shape stable.
func invalidSizes(schema.Table) []int {
	return nil
}
