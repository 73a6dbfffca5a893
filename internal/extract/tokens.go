package extract

import "regexp"

// Token patterns shared by the segmenter and the product normalizer.
var (
	// BatchAnchor opens a domestic batch block: F followed by six or more digits.
	BatchAnchor = regexp.MustCompile(`(?i)\b(F\d{6,})\b`)

	// ExportBatchAnchor is the labelled form used on export orders.
	ExportBatchAnchor = regexp.MustCompile(`(?i)Batch\s*:\s*([A-Z0-9]+)`)

	PalletToken = regexp.MustCompile(`(?i)\b(\d+)\s*PAL\b`)
	SSCCToken   = regexp.MustCompile(`\b(\d{18,20})\b`)
	SizeToken   = regexp.MustCompile(`\b(\d{2}/\d{2})\b`)

	// PackagingToken captures number, unit and an optional packaging word:
	// "12.5KG ctn", "1T bag", "850KG D-Sp".
	PackagingToken = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(KG|T)\b\s*(?:([A-Za-z-]{2,6}))?`)

	// GradeFallback is deliberately case-sensitive: only upper-case codes count.
	GradeFallback = regexp.MustCompile(`\b([A-Z]{2,4})\b`)
)

// HasProductToken reports whether line carries a size, packaging or
// grade-shaped token.
func HasProductToken(line string) bool {
	return SizeToken.MatchString(line) ||
		PackagingToken.MatchString(line) ||
		GradeFallback.MatchString(line)
}
