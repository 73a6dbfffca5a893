package batch

import (
	"path/filepath"
	"sort"

	"github.com/a3tai/parsingtool/internal/output"
	"github.com/a3tai/parsingtool/internal/pipeline"
	"github.com/a3tai/parsingtool/internal/schema"
)

// accumulator collects every table of a run, tagged with its source file.
type accumulator struct {
	tables map[string]schema.Table
}

func newAccumulator() *accumulator {
	return &accumulator{tables: make(map[string]schema.Table)}
}

func (a *accumulator) add(res pipeline.Result, source string) {
	for _, t := range res.Tables {
		tagged := t.WithSource(source)
		if cur, ok := a.tables[t.Schema.Name]; ok {
			a.tables[t.Schema.Name] = cur.Append(tagged)
			continue
		}
		a.tables[t.Schema.Name] = tagged
	}
}

func (a *accumulator) empty() bool {
	return len(a.tables) == 0
}

func (a *accumulator) names() []string {
	names := make([]string, 0, len(a.tables))
	for n := range a.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// writeCombined writes one CSV per collected table.
func (a *accumulator) writeCombined(dir string) ([]string, error) {
	var written []string
	for _, name := range a.names() {
		file, ok := combinedNames[name]
		if !ok {
			file = name + "_combined.csv"
		}
		path := filepath.Join(dir, file)
		if err := output.WriteCSVFile(path, a.tables[name], output.CSVOptions{}); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (a *accumulator) sheets() []output.Sheet {
	var sheets []output.Sheet
	for _, name := range a.names() {
		sheets = append(sheets, output.Sheet{Name: name, Table: a.tables[name]})
	}
	return sheets
}
