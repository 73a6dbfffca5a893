package pipeline

import (
	"regexp"
	"strings"

	"github.com/a3tai/parsingtool/internal/extract"
	"github.com/a3tai/parsingtool/internal/schema"
)

var domesticHeaders = extract.PatternSet{
	extract.MustCompile("Delivery Number", `\bDelivery\s+([0-9]{6,})\b`),
	extract.MustCompile("Picking Request Number", `\bPicking\s*request\s*([0-9]{6,})\b`),
	extract.MustCompile("OLAM Ref Number", `\bOlam\s*Reference\s*([0-9A-Z/-]+)\b`),
	extract.MustCompile("Customer Delivery Date", `\bCustomer\s*Delivery\s*Date\s*([0-9./-]{8,10})\b`),
	extract.MustCompile("Plant/Storage Location", `\bPlant/Storage\s*location\s*([A-Z0-9/]+)\b`),
	extract.MustCompile("Total Gross Weight", `\bGross\s*weight\s*([0-9.,]+)\s*KG\b`),
}

var (
	// Company suffixes are matched case-sensitively so prose does not qualify.
	customerLine = regexp.MustCompile(`\b(Pty|Limited|Ltd|Pty Ltd|Pty\.|Ltd\.)\b`)
	addressStop  = regexp.MustCompile(`(?i)(Delivery|Olam|Picking|Plant/Storage|Gross\s*weight)`)
)

// Address lines read after the customer line.
const addressLines = 5

// DomesticProfile parses ZAPI delivery notes into Batches and SSCC tables.
func DomesticProfile() Profile {
	return Profile{
		DocType:  Domestic,
		Headers:  domesticHeaders,
		Segment:  extract.DomesticSegmentConfig(),
		Assemble: assembleDomestic,
	}
}

func assembleDomestic(doc Document) []schema.Table {
	h := domesticHeaderFields(doc)

	batches := schema.NewTable(schema.Batches)
	sscc := schema.NewTable(schema.SSCC)

	for _, b := range doc.Blocks {
		prod := extract.NormalizeProduct(b.ProductLines)
		fields := h.WithAll(map[string]string{
			"Batch Number": b.Batch,
			"SSCC Qty":     ssccQty(b),
			"Variety":      prod.Variety,
			"Grade":        prod.Grade,
			"Size":         prod.Size,
			"Packaging":    prod.Packaging,
		})
		batches.Rows = append(batches.Rows, rowFrom(fields, schema.Batches))

		for _, code := range b.SSCCs {
			sscc.Rows = append(sscc.Rows, rowFrom(fields.With("SSCC", code), schema.SSCC))
		}
	}
	return []schema.Table{batches, sscc}
}

// domesticHeaderFields post-processes the matched labels and adds the
// customer block.
func domesticHeaderFields(doc Document) extract.Fields {
	h := doc.Headers
	h = h.With("Customer Delivery Date", extract.ToDDMMYYYY(h.Get("Customer Delivery Date")))
	h = h.With("Total Gross Weight", strings.ReplaceAll(h.Get("Total Gross Weight"), ",", ""))

	customer, address := customerBlock(doc.Lines)
	return h.WithAll(map[string]string{
		"Customer":                  customer,
		"Customer/Delivery Address": address,
	})
}

// customerBlock finds the first line naming a company and joins the address
// lines that follow it, stopping at the next known label.
func customerBlock(lines []string) (string, string) {
	for i, line := range lines {
		if !customerLine.MatchString(line) {
			continue
		}
		var parts []string
		for _, follow := range extract.Window(lines, i+1, 0, addressLines-1) {
			if addressStop.MatchString(follow) {
				break
			}
			if s := strings.TrimSpace(follow); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.TrimSpace(line), strings.Join(parts, ", ")
	}
	return "", ""
}

// ssccQty is "<n> PAL" only when the pallet hint agrees with the number of
// distinct SSCC codes collected for the block.
func ssccQty(b extract.Block) string {
	n, ok := b.PalletCount()
	if !ok || n != len(b.SSCCs) {
		return ""
	}
	return b.PalletHint
}
