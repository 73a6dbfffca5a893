// Package output writes schema tables to disk: CSV files with a fixed column
// order and an optional XLSX workbook.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/a3tai/parsingtool/internal/schema"
)

// utf8BOM lets spreadsheet tools detect the encoding of export CSVs.
const utf8BOM = "\ufeff"

// CSVOptions tunes CSV rendering.
type CSVOptions struct {
	BOM bool
}

// WriteCSV writes the header row and every record of t.
func WriteCSV(w io.Writer, t schema.Table, opts CSVOptions) error {
	if opts.BOM {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// WriteCSVFile writes t to path, replacing any existing file.
func WriteCSVFile(path string, t schema.Table, opts CSVOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, t, opts); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
