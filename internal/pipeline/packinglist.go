package pipeline

import (
	"regexp"
	"strings"

	"github.com/a3tai/parsingtool/internal/extract"
	"github.com/a3tai/parsingtool/internal/schema"
)

// Values that are really a neighbouring label captured by a loose pattern.
var labelNoise = map[string]bool{
	"sale":        true,
	"date":        true,
	"delivery":    true,
	"booking":     true,
	"quantity":    true,
	"description": true,
}

// Packer values that name a third-party storage site.
var storageSites = []string{"Seaway", "RJN", "Olam"}

// HandStacked is the Pallet value for consignments loaded without pallets.
const HandStacked = "Hand stacked (no pallets)"

var (
	piPalQty          = extract.MustCompile("pallet quantity", `\b(\d+(?:[.,]\d+)?)\s+PAL\b`)
	piPacker          = extract.MustCompile("packer", `Packer\s*[:\s]*\n([^\n]+)`)
	finalDestSameLine = extract.MustCompile("final destination", `Final\s+Destination\s*:\s*([^\n]+)`)
	finalDestNextLine = extract.MustCompile("final destination next line", `Final\s+Destination\s*:[^\n]*\n([^\n]+)`)
	plainDestination  = extract.MustCompile("destination", `\bDestination\s*:\s*([^\n]+)`)
	finalDestAnyLine  = extract.MustCompile("final destination line", `(Final\s+Destination[^\n]*)`)
	handStacked       = extract.MustCompile("hand stacked", `(hand\s+stacked)`)
	piDescLine        = extract.MustCompile("description", `^(.*(?:Almonds|Alm|Kern|Inshell).*)$`)
	finalDestLabel    = regexp.MustCompile(`(?i)final\s+destination\s*:?`)
)

// PackingListProfile parses PI packing lists into a single Export-schema
// row.
func PackingListProfile() Profile {
	return Profile{
		DocType:  PackingList,
		Headers:  exportHeaders,
		Keep:     keepValue,
		Assemble: assemblePackingList,
	}
}

func keepValue(_, value string) bool {
	return !labelNoise[strings.ToLower(value)]
}

func assemblePackingList(doc Document) []schema.Table {
	text := doc.Text
	f := normalizeDates(doc.Headers)

	if m := piPalQty.Find(text); m.OK {
		f = f.With("SSCC Qty", m.Value+" PAL")
	}

	// The header pattern may have picked up any Packer value; only storage
	// sites belong in this column.
	f = f.With("3rd Party Storage", "")
	if m := piPacker.Find(text); m.OK && isStorageSite(m.Value) {
		f = f.With("3rd Party Storage", m.Value)
	}

	f = f.With("Destination", destination(text, f.Get("Destination")))

	if f.Get("Pallet") == "" && handStacked.MatchString(text) {
		f = f.With("Pallet", HandStacked)
	}
	if v := fumigation(text); v != "" {
		f = f.With("Fumigation", v)
	}

	if m := piDescLine.Find(text); m.OK {
		f = withProduct(f, extract.ParseProductLine(m.Value))
	}

	// A labelled final destination always wins.
	if m := finalDestAnyLine.Find(text); m.OK {
		v := strings.Trim(finalDestLabel.ReplaceAllString(m.Value, ""), " -:\t")
		if v != "" {
			f = f.With("Destination", v)
		}
	}

	table := schema.NewTable(schema.PackingList)
	table.Rows = append(table.Rows, rowFrom(f, schema.PackingList))
	return []schema.Table{table}
}

func isStorageSite(packer string) bool {
	for _, site := range storageSites {
		if strings.Contains(packer, site) {
			return true
		}
	}
	return false
}

// destination walks the destination cascade: "Final Destination :" on the
// same line, then on the next line, then a plain "Destination :", then the
// shared header value unless it is really the shipping line.
func destination(text, headerValue string) string {
	for _, p := range []extract.Pattern{finalDestSameLine, finalDestNextLine, plainDestination} {
		if m := p.Find(text); m.OK {
			return m.Value
		}
	}
	if strings.HasPrefix(headerValue, "Shipping Line") {
		return ""
	}
	return headerValue
}
