package extract

import "regexp"

var dateRe = regexp.MustCompile(`\b(\d{2})[./-](\d{2})[./-](\d{4})\b`)

// ToDDMMYYYY finds a date such as 10.02.2025 or 10-02-2025 in text and
// renders it as 10/02/2025. Returns "" when no date is present.
func ToDDMMYYYY(text string) string {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + "/" + m[2] + "/" + m[3]
}
