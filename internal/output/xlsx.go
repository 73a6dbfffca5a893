package output

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/parsingtool/internal/schema"
)

// Sheet is one worksheet of a workbook.
type Sheet struct {
	Name  string
	Table schema.Table
}

const maxSheetName = 31

// WriteXLSX writes one worksheet per sheet, header row first, and saves the
// workbook to path.
func WriteXLSX(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return errors.New("workbook has no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for i, s := range sheets {
		name := sheetName(s.Name)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, s.Table); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t schema.Table) error {
	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	for i, h := range t.Header() {
		if err := write(i+1, 1, h); err != nil {
			return fmt.Errorf("sheet %s header: %w", sheet, err)
		}
	}
	for r, rec := range t.Records() {
		for c, v := range rec {
			if err := write(c+1, r+2, v); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", sheet, r+1, err)
			}
		}
	}
	return nil
}

func sheetName(name string) string {
	if name == "" {
		name = "Sheet"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
