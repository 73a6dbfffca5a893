package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindPDFs expands inputs into a sorted, de-duplicated list of PDF paths.
// Directories contribute the *.pdf files directly inside them; explicit files
// are taken as given. A missing input is an error.
func FindPDFs(inputs []string) ([]string, error) {
	seen := make(map[string]bool)
	var found []string

	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if seen[key] {
			return
		}
		seen[key] = true
		found = append(found, path)
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in, err)
		}
		if !info.IsDir() {
			add(in)
			continue
		}

		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", in, err)
		}
		for _, e := range entries {
			if e.IsDir() || !IsPDFName(e.Name()) {
				continue
			}
			add(filepath.Join(in, e.Name()))
		}
	}

	sort.Slice(found, func(i, j int) bool {
		bi, bj := filepath.Base(found[i]), filepath.Base(found[j])
		if bi != bj {
			return bi < bj
		}
		return found[i] < found[j]
	})
	return found, nil
}

// IsPDFName reports whether name carries a .pdf extension in any case.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
