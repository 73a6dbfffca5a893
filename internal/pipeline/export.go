package pipeline

import (
	"regexp"
	"strings"

	"github.com/a3tai/parsingtool/internal/extract"
	"github.com/a3tai/parsingtool/internal/schema"
)

const datePattern = `(\d{2}[./-]\d{2}[./-]\d{4})`

// exportHeaders are shared by export orders and packing lists.
var exportHeaders = extract.PatternSet{
	extract.MustCompile("Name", `^\s*(?:Created\s+by|Requested\s+by|Name)\s*:\s*([^\n]+)$`),
	extract.MustCompile("Date Requested", `\b(?:Date\s+Requested|Order\s+Date|Document\s+Date)\s*:?\s*`+datePattern),
	extract.MustCompile("OLAM Ref Number", `\bOlam\s*Ref(?:erence)?\s*(?:No\.?|Number)?\s*:?\s*([0-9][0-9A-Z/-]*)`),
	extract.MustCompile("Delivery Number", `\bDelivery\s*(?:No\.?|Number)?\s*:?\s*([0-9]{6,})\b`),
	extract.MustCompile("Sale Order Number", `\bSales?\s*Order\s*(?:No\.?|Number)?\s*:?\s*([0-9]{6,})\b`),
	extract.MustCompile("Batch Number", `\bBatch\s*:\s*([A-Z0-9]+)`),
	extract.MustCompile("SSCC Qty", `^\s*([\d.,]+\s+PAL)\b`),
	extract.MustCompile("Vessel ETD", `\b(?:Vessel\s+)?ETD\s*:?\s*`+datePattern),
	extract.MustCompile("Destination", `\b(?:Port\s+of\s+)?Destination\s*:?\s*([^\n]+)`),
	extract.MustCompile("3rd Party Storage", `\bPacker\s*:\s*([^\n]+)`),
	extract.MustCompile("Pallet", `loaded\s+on\s+([A-Za-z ]+pallets?)`),
	extract.MustCompile("Fumigation", `(\d+\s+days\s+Fumigation[^\n]*)`),
	extract.MustCompile("Container", `\bContainer\s*(?:Type|Size|No\.?)?\s*:\s*([^\n]+)`),
}

var (
	linePalQty      = extract.MustCompile("line pallet quantity", `^\s*([\d., ]+)\s+PAL\b`)
	packerNextLine  = extract.MustCompile("packer", `Packer\s*:\s*\n([^\n]+)`)
	exportDescLine  = extract.MustCompile("description", `(Almonds[^\n]+)`)
	fumigationDays  = extract.MustCompile("fumigation", `(\d+\s+days\s+Fumigation[^\n]*)`)
	fumigationLine  = extract.MustCompile("fumigation line", `([^\n]*Fumigation[^\n]*)`)
	bagCountToken   = extract.MustCompile("bags", `(\d[\d.,]*)\s+BAGS\b`)
	palCountToken   = extract.MustCompile("pallets", `([\d., ]+)\s+PAL\b`)
	rejectGradeWord = extract.MustCompile("reject grade", `(H&S\s+[A-Za-z]+)`)
	batchNumber     = extract.Pattern{Name: "batch", Re: extract.ExportBatchAnchor}
	hasDigit        = regexp.MustCompile(`\d`)
)

// ExportProfile parses export orders into the Export table, one row per
// distinct batch. Batch numbers are read from the whole text so a label and
// its value may sit on separate lines.
func ExportProfile() Profile {
	seg := extract.DomesticSegmentConfig()
	seg.Anchor = extract.ExportBatchAnchor
	return Profile{
		DocType:  Export,
		Headers:  exportHeaders,
		Segment:  seg,
		Assemble: assembleExport,
	}
}

func assembleExport(doc Document) []schema.Table {
	fields := exportDocumentFields(doc)
	table := schema.NewTable(schema.Export)

	batches := distinct(batchNumber.FindAll(doc.Text))
	if len(batches) == 0 {
		table.Rows = append(table.Rows, rowFrom(fields, schema.Export))
		return []schema.Table{table}
	}

	bags := newCursor(bagCountToken.FindAll(doc.Text), " BAGS")
	pals := newCursor(palCounts(doc.Text), " PAL")
	grades := newCursor(rejectGradeWord.FindAll(doc.Text), "")

	for _, batch := range batches {
		row := fields.With("Batch Number", batch)
		if row.Get("Packaging") == extract.RejectPackaging {
			if v, ok := bags.next(); ok {
				row = row.With("SSCC Qty", v)
			}
			if v, ok := grades.next(); ok {
				row = row.With("Grade", v)
			}
		} else if v, ok := pals.next(); ok {
			row = row.With("SSCC Qty", v)
		}
		table.Rows = append(table.Rows, rowFrom(row, schema.Export))
	}
	return []schema.Table{table.Dedupe()}
}

// exportDocumentFields applies the document-level overrides on top of the
// header patterns.
func exportDocumentFields(doc Document) extract.Fields {
	f := normalizeDates(doc.Headers)

	if m := linePalQty.Find(doc.Text); m.OK {
		if qty := extract.StripSpace(m.Value); hasDigit.MatchString(qty) {
			f = f.With("SSCC Qty", qty+" PAL")
		}
	}
	if m := packerNextLine.Find(doc.Text); m.OK {
		f = f.With("3rd Party Storage", m.Value)
	}
	if m := exportDescLine.Find(doc.Text); m.OK {
		f = withProduct(f, extract.ParseProductLine(m.Value))
	}
	if v := fumigation(doc.Text); v != "" {
		f = f.With("Fumigation", v)
	}
	return f
}

func normalizeDates(f extract.Fields) extract.Fields {
	for _, key := range []string{"Date Requested", "Vessel ETD"} {
		if v := f.Get(key); v != "" {
			f = f.With(key, extract.ToDDMMYYYY(v))
		}
	}
	return f
}

// withProduct copies the non-empty product attributes into f.
func withProduct(f extract.Fields, p extract.Product) extract.Fields {
	kv := make(map[string]string, 4)
	for key, v := range map[string]string{
		"Variety":   p.Variety,
		"Grade":     p.Grade,
		"Size":      p.Size,
		"Packaging": p.Packaging,
	} {
		if v != "" {
			kv[key] = v
		}
	}
	return f.WithAll(kv)
}

// fumigation prefers an explicit "<n> days Fumigation ..." line and falls
// back to the last line mentioning fumigation.
func fumigation(text string) string {
	if m := fumigationDays.Find(text); m.OK {
		return m.Value
	}
	all := fumigationLine.FindAll(text)
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1]
}

// palCounts returns every "<n> PAL" quantity with inner spaces removed.
// Captures without a digit are dropped.
func palCounts(text string) []string {
	var out []string
	for _, raw := range palCountToken.FindAll(text) {
		if v := extract.StripSpace(raw); hasDigit.MatchString(v) {
			out = append(out, v)
		}
	}
	return out
}

// distinct keeps the first occurrence of each value.
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// cursor hands out document-wide values in encounter order. It is shared by
// every row of a document and never rewinds.
type cursor struct {
	values []string
	suffix string
	idx    int
}

func newCursor(values []string, suffix string) *cursor {
	return &cursor{values: values, suffix: suffix}
}

func (c *cursor) next() (string, bool) {
	if c.idx >= len(c.values) {
		return "", false
	}
	v := strings.TrimSpace(c.values[c.idx]) + c.suffix
	c.idx++
	return v, true
}
