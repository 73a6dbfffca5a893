package extract

import (
	"regexp"
	"strings"
)

// Product is the normalized (Variety, Grade, Size, Packaging) tuple for one
// description.
type Product struct {
	Variety   string
	Grade     string
	Size      string
	Packaging string
}

// Canonical grade tokens.
const (
	GradeSSR  = "SSR"
	GradeSupr = "Supr"
	GradeXNo1 = "XNo1"
)

type gradeRule struct {
	re   *regexp.Regexp
	norm string
}

// Explicit grades are tried in order before the upper-case fallback.
var gradeRules = []gradeRule{
	{regexp.MustCompile(`(?i)\bSSR\b`), GradeSSR},
	{regexp.MustCompile(`(?i)\bSUPR\b`), GradeSupr},
	{regexp.MustCompile(`(?i)\bX\s*NO\.?\s*1\b`), GradeXNo1},
	{regexp.MustCompile(`(?i)\bXNO1\b`), GradeXNo1},
}

var packagingSynonyms = map[string]string{
	"ctn":    "ctn",
	"carton": "ctn",
	"bag":    "bag",
	"case":   "case",
	"d-sp":   "D-Sp",
	"dsp":    "D-Sp",
	"t":      "bag",
}

// span is a match position inside the joined description.
type span struct {
	start, end int
}

func (s span) ok() bool { return s.end > s.start }

// NormalizeProduct parses candidate description lines into a Product.
// Lines are joined with single spaces; size, packaging and grade are taken
// from their first matches and Variety is the text before the grade match,
// else before the size match, else before the packaging match.
func NormalizeProduct(lines []string) Product {
	txt := strings.Join(lines, " ")
	var p Product

	var sizeAt span
	if m := SizeToken.FindStringSubmatchIndex(txt); m != nil {
		p.Size = txt[m[2]:m[3]]
		sizeAt = span{m[0], m[1]}
	}

	var packAt span
	if m := PackagingToken.FindStringSubmatchIndex(txt); m != nil {
		word := ""
		if m[6] >= 0 {
			word = txt[m[6]:m[7]]
		}
		p.Packaging = NormalizePackaging(txt[m[2]:m[3]], txt[m[4]:m[5]], word)
		packAt = span{m[0], m[1]}
	}

	var gradeAt span
	p.Grade, gradeAt = findGrade(txt)

	anchor := gradeAt
	if !anchor.ok() {
		anchor = sizeAt
	}
	if !anchor.ok() {
		anchor = packAt
	}
	if anchor.ok() {
		p.Variety = CollapseSpace(txt[:anchor.start])
	}
	return p
}

// NormalizePackaging renders number, unit and packaging word as
// "<number><KG|T> <word>". A bare tonne unit implies a bulk bag.
func NormalizePackaging(number, unit, word string) string {
	unit = strings.ToUpper(unit)
	if unit != "KG" && unit != "T" {
		unit = "KG"
	}
	word = strings.ToLower(word)
	if syn, ok := packagingSynonyms[word]; ok {
		word = syn
	}
	if unit == "T" && word == "" {
		word = "bag"
	}
	return strings.TrimSpace(number + unit + " " + word)
}

// NormalizeGrade maps a grade token to its canonical spelling. Unknown tokens
// pass through unchanged, so the function is idempotent.
func NormalizeGrade(token string) string {
	g, at := findGrade(token)
	if at.ok() && at.start == 0 && at.end == len(token) {
		return g
	}
	return token
}

func findGrade(txt string) (string, span) {
	for _, r := range gradeRules {
		if m := r.re.FindStringIndex(txt); m != nil {
			return r.norm, span{m[0], m[1]}
		}
	}
	if m := GradeFallback.FindStringSubmatchIndex(txt); m != nil {
		return txt[m[2]:m[3]], span{m[2], m[3]}
	}
	return "", span{}
}

// Reject-product vocabulary on export descriptions.
var rejectTokens = []string{
	"non var",
	"mfg",
	"splits",
	"brokens",
	"splits&brokens",
	"beltuza",
	"satake",
	"h&s",
}

var (
	looseSize     = regexp.MustCompile(`\d{2}\s*/\s*\d{2}`)
	rejectVariety = regexp.MustCompile(`(?im)^(Almonds\s+Kern\s+Non\s+Var)`)
	kgWord        = regexp.MustCompile(`(?i)\bKG\b`)
	normalProduct = regexp.MustCompile(`(?im)(Almonds\s+Kern\s+\w+)\s+(\w+)\s+(\d{2}\s*/\s*\d{2})\s+(\d+\s*lb\s+\w+)`)
)

// Reject rows carry fixed size and packaging.
const (
	RejectSize      = "N/A"
	RejectPackaging = "Bulk Bags"
	RejectVariety   = "Almonds Kern Non Var"
)

// IsReject reports whether an export description is a rejects product: no
// NN/NN size and at least one reject keyword.
func IsReject(desc string) bool {
	if looseSize.MatchString(desc) {
		return false
	}
	lower := strings.ToLower(desc)
	for _, tok := range rejectTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// ParseProductLine classifies a single export or packing-list description.
// Rejects get Size N/A and Bulk Bags; normal products are read from the
// "<Almonds Kern X> <grade> <NN/NN> <n lb word>" layout, falling back to
// NormalizeProduct when the layout does not hold.
func ParseProductLine(desc string) Product {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return Product{}
	}
	if IsReject(desc) {
		variety := RejectVariety
		rest := desc
		if m := rejectVariety.FindStringSubmatchIndex(desc); m != nil {
			variety = strings.TrimSpace(desc[m[2]:m[3]])
			rest = strings.TrimSpace(desc[m[1]:])
		}
		rest = CollapseSpace(kgWord.ReplaceAllString(rest, ""))
		return Product{
			Variety:   variety,
			Grade:     rest,
			Size:      RejectSize,
			Packaging: RejectPackaging,
		}
	}
	if m := normalProduct.FindStringSubmatch(desc); m != nil {
		return Product{
			Variety:   strings.TrimSpace(m[1]),
			Grade:     strings.TrimSpace(m[2]),
			Size:      strings.TrimSpace(m[3]),
			Packaging: strings.TrimSpace(m[4]),
		}
	}
	return NormalizeProduct([]string{desc})
}
