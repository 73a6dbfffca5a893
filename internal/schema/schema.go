// Package schema defines the fixed output tables produced by the parsers.
package schema

import "strings"

// SourceFileColumn is appended to tables that combine several input files.
const SourceFileColumn = "Source_File"

// Schema is a named, ordered column list
type Schema struct {
	Name    string
	Columns []string
}

// Batches is the per-batch table written for domestic delivery notes
var Batches = Schema{
	Name: "batches",
	Columns: []string{
		"Requested By",
		"Date Requested",
		"Picking Request Number",
		"Delivery Number",
		"OLAM Ref Number",
		"Batch Number",
		"SSCC Qty",
		"Customer Delivery Date",
		"Customer",
		"Customer/Delivery Address",
		"Date of Pick Up",
		"Total Days In Transit",
		"Plant/Storage Location",
		"Inspection Type",
		"Inspection progress",
		"Inspection Status",
		"Inspection Date",
		"Variety",
		"Grade",
		"Size",
		"Packaging",
		"Total Gross Weight",
		"Pallet",
		"Comments",
		"Non-Conformance",
	},
}

// SSCC is the per-code detail table written for domestic delivery notes
var SSCC = Schema{
	Name: "sscc",
	Columns: []string{
		"Delivery Number",
		"Batch Number",
		"SSCC",
		"Variety",
		"Grade",
		"Size",
		"Packaging",
	},
}

// Export is shared by export orders and packing lists
var Export = Schema{
	Name: "export",
	Columns: []string{
		"Name",
		"Date Requested",
		"OLAM Ref Number",
		"Delivery Number",
		"Sale Order Number",
		"Batch Number",
		"SSCC Qty",
		"Vessel ETD",
		"Destination",
		"3rd Party Storage",
		"Variety",
		"Grade",
		"Size",
		"Packaging",
		"Pallet",
		"Fumigation",
		"Container",
	},
}

// PackingList uses the export columns under its own table name.
var PackingList = Schema{Name: "packing", Columns: Export.Columns}

// ValidGrades is the allowed grade set checked by QC.
var ValidGrades = []string{"SSR", "Supr", "Xno1", "Rejects"}

// IsValidGrade reports whether grade is in ValidGrades. The comparison
// ignores case so the normalizer's XNo1 spelling is accepted.
func IsValidGrade(grade string) bool {
	for _, g := range ValidGrades {
		if strings.EqualFold(g, grade) {
			return true
		}
	}
	return false
}

// Has reports whether the schema declares column.
func (s Schema) Has(column string) bool {
	for _, c := range s.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// WithColumn returns a copy of s with column appended. The receiver's slice is
// never shared with the result.
func (s Schema) WithColumn(column string) Schema {
	cols := make([]string, 0, len(s.Columns)+1)
	cols = append(cols, s.Columns...)
	cols = append(cols, column)
	return Schema{Name: s.Name, Columns: cols}
}
