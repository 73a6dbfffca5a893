// Package extract holds the line-oriented heuristics that turn document text
// into field values: the pattern library, the batch block segmenter and the
// product description normalizer.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeText converts raw extracted text into the form every extractor
// expects: NFC-composed runes and LF line endings.
func NormalizeText(raw string) string {
	text := norm.NFC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Lines splits text into lines, preserving order and surrounding whitespace
// so that patterns decide what to trim.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// CollapseSpace trims s and folds every whitespace run into a single space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// StripSpace removes all whitespace from s ("22 .000" -> "22.000").
func StripSpace(s string) string {
	return whitespaceRun.ReplaceAllString(s, "")
}

// Window returns seq[idx-before : idx+after+1], clamped to the slice bounds.
func Window(seq []string, idx, before, after int) []string {
	if len(seq) == 0 {
		return nil
	}
	lo := max(0, idx-before)
	hi := min(len(seq), idx+after+1)
	if lo >= hi {
		return nil
	}
	return seq[lo:hi]
}

// Match is the result of applying a pattern: either Matched(value) or
// NotMatched. A miss is never an error.
type Match struct {
	Value string
	OK    bool
}

// Matched wraps a captured value.
func Matched(v string) Match { return Match{Value: v, OK: true} }

// NotMatched is the empty result.
func NotMatched() Match { return Match{} }

// Or returns the captured value, or def when nothing matched.
func (m Match) Or(def string) string {
	if !m.OK {
		return def
	}
	return m.Value
}

// String renders the value, empty when not matched.
func (m Match) String() string { return m.Value }
