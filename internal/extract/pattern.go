package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultFlags are prepended to every pattern compiled through Compile:
// case-insensitive, and ^/$ anchor per line.
const DefaultFlags = "(?im)"

// Pattern is a named regular expression whose first capture group carries the
// field value.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// Compile builds a Pattern with DefaultFlags.
func Compile(name, expr string) (Pattern, error) {
	re, err := regexp.Compile(DefaultFlags + expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern %q: %w", name, err)
	}
	return Pattern{Name: name, Re: re}, nil
}

// MustCompile is Compile for package-level tables.
func MustCompile(name, expr string) Pattern {
	p, err := Compile(name, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Find returns the first capture group of the leftmost match, trimmed.
// Patterns without a capture group never match.
func (p Pattern) Find(text string) Match {
	if p.Re == nil || text == "" || p.Re.NumSubexp() == 0 {
		return NotMatched()
	}
	m := p.Re.FindStringSubmatchIndex(text)
	if m == nil || m[2] < 0 {
		return NotMatched()
	}
	return Matched(strings.TrimSpace(text[m[2]:m[3]]))
}

// FindAll returns the first capture group of every match, trimmed.
func (p Pattern) FindAll(text string) []string {
	if p.Re == nil || text == "" || p.Re.NumSubexp() == 0 {
		return nil
	}
	var out []string
	for _, m := range p.Re.FindAllStringSubmatchIndex(text, -1) {
		if m[2] < 0 {
			continue
		}
		out = append(out, strings.TrimSpace(text[m[2]:m[3]]))
	}
	return out
}

// MatchString reports whether the pattern matches anywhere in s.
func (p Pattern) MatchString(s string) bool {
	return p.Re != nil && p.Re.MatchString(s)
}

// PatternSet is an ordered list of field patterns. Order only matters for
// output stability; each field is matched independently.
type PatternSet []Pattern

// Lookup returns the pattern registered for name.
func (s PatternSet) Lookup(name string) (Pattern, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// With returns a copy of the set with p replacing the pattern of the same
// name, or appended when the name is new.
func (s PatternSet) With(p Pattern) PatternSet {
	out := make(PatternSet, 0, len(s)+1)
	replaced := false
	for _, existing := range s {
		if existing.Name == p.Name {
			out = append(out, p)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, p)
	}
	return out
}

// Apply runs every pattern against text. Misses produce empty values, so the
// returned mapping always carries every field name in the set. A non-nil
// keep filter can veto captured values (label noise).
func (s PatternSet) Apply(text string, keep func(field, value string) bool) Fields {
	values := make(map[string]string, len(s))
	for _, p := range s {
		v := p.Find(text).Or("")
		if v != "" && keep != nil && !keep(p.Name, v) {
			v = ""
		}
		values[p.Name] = v
	}
	return Fields{m: values}
}
