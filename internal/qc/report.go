package qc

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Meta stamps a report with the run that produced it.
type Meta struct {
	RunID       string
	GeneratedAt time.Time
}

// WriteReport renders one Markdown document for every report in order.
func WriteReport(w io.Writer, reports []Report, meta Meta) error {
	var b strings.Builder
	b.WriteString("# QC Report\n\n")

	if meta.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", meta.RunID)
	}
	if !meta.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", meta.GeneratedAt.Format(time.RFC3339))
	}
	if meta.RunID != "" || !meta.GeneratedAt.IsZero() {
		b.WriteString("\n")
	}

	if len(reports) == 0 {
		b.WriteString("No QC data provided.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, r := range reports {
		src := r.Source
		if src == "" {
			src = "<unknown source>"
		}
		fmt.Fprintf(&b, "## %s\n", src)

		if len(r.MissingColumns) > 0 {
			b.WriteString("### Missing Columns\n")
			for _, c := range r.MissingColumns {
				fmt.Fprintf(&b, "- %s\n", c)
			}
		}
		writeIndices(&b, "Invalid Grades", r.InvalidGrades)
		writeIndices(&b, "Invalid Sizes", r.InvalidSizes)
		if r.OK() {
			b.WriteString("All good. No issues detected.\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIndices(b *strings.Builder, title string, rows []int) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s (row indices)\n", title)
	for _, i := range rows {
		fmt.Fprintf(b, "- %d\n", i)
	}
}

// WriteReportFile writes the report to path, replacing any existing file.
func WriteReportFile(path string, reports []Report, meta Meta) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create QC report: %w", err)
	}
	if err := WriteReport(f, reports, meta); err != nil {
		f.Close()
		return fmt.Errorf("write QC report: %w", err)
	}
	return f.Close()
}
