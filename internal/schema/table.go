package schema

import "strings"

// Row maps column names to values. Columns the row does not carry render as
// empty strings.
type Row map[string]string

// Get returns the value for column, empty when absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Table is a list of rows bound to a schema.
type Table struct {
	Schema Schema
	Rows   []Row
}

// NewTable returns an empty table for s.
func NewTable(s Schema) Table {
	return Table{Schema: s}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Header returns the column names in schema order.
func (t Table) Header() []string {
	out := make([]string, len(t.Schema.Columns))
	copy(out, t.Schema.Columns)
	return out
}

// Records renders every row in schema column order. Every declared column is
// present in every record, whatever the row carries.
func (t Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, t.record(r))
	}
	return out
}

func (t Table) record(r Row) []string {
	rec := make([]string, len(t.Schema.Columns))
	for i, col := range t.Schema.Columns {
		rec[i] = r[col]
	}
	return rec
}

// Dedupe drops rows whose rendered record equals an earlier one, keeping the
// first occurrence.
func (t Table) Dedupe() Table {
	seen := make(map[string]bool, len(t.Rows))
	out := Table{Schema: t.Schema}
	for _, r := range t.Rows {
		key := strings.Join(t.record(r), "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, r)
	}
	return out
}

// WithSource returns a copy of t with a Source_File column set to source on
// every row.
func (t Table) WithSource(source string) Table {
	out := Table{Schema: t.Schema}
	if !out.Schema.Has(SourceFileColumn) {
		out.Schema = out.Schema.WithColumn(SourceFileColumn)
	}
	for _, r := range t.Rows {
		nr := make(Row, len(r)+1)
		for k, v := range r {
			nr[k] = v
		}
		nr[SourceFileColumn] = source
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// Append returns t with the rows of other added. Values are read by column
// name, so other may use a narrower schema.
func (t Table) Append(other Table) Table {
	rows := make([]Row, 0, len(t.Rows)+len(other.Rows))
	rows = append(rows, t.Rows...)
	rows = append(rows, other.Rows...)
	return Table{Schema: t.Schema, Rows: rows}
}
