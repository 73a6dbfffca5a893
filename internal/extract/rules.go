package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Rules holds header-pattern overrides keyed by document type, then field
// name. Loaded from YAML such as:
//
//	export:
//	  Container: 'Container\s+No\.?\s*:\s*([A-Z]{4}\d{7})'
//	domestic:
//	  OLAM Ref Number: 'Olam\s*Ref\s*([0-9A-Z/-]+)'
type Rules map[string]map[string]string

// LoadRules reads and compiles a rules file. Every expression is compiled up
// front so a bad override fails before any document is processed.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rule overrides and validates every expression.
func ParseRules(data []byte) (Rules, error) {
	rules := Rules{}
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	for docType, fields := range rules {
		for field, expr := range fields {
			if _, err := Compile(field, expr); err != nil {
				return nil, fmt.Errorf("rules for %s: %w", docType, err)
			}
		}
	}
	return rules, nil
}

// Patterns compiles the overrides for one document type, ordered by field
// name.
func (r Rules) Patterns(docType string) (PatternSet, error) {
	fields := r[docType]
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	set := make(PatternSet, 0, len(names))
	for _, name := range names {
		p, err := Compile(name, fields[name])
		if err != nil {
			return nil, fmt.Errorf("rules for %s: %w", docType, err)
		}
		set = append(set, p)
	}
	return set, nil
}
