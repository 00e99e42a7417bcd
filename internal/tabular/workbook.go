package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"udyami/internal/domain"
)

// ReadWorkbook opens an xlsx workbook and returns one table per sheet whose
// name resolves to a document kind. Other sheets are ignored.
func ReadWorkbook(r io.Reader) (map[domain.DocumentKind]*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	out := make(map[domain.DocumentKind]*Table)
	for _, sheet := range f.GetSheetList() {
		kind, ok := KindForSheet(sheet)
		if !ok {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		out[kind] = NewTable(sheet, rows)
	}
	return out, nil
}

// WriteWorkbook writes tables as sheets of one xlsx workbook, in order.
func WriteWorkbook(w io.Writer, tables []*Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("write workbook: no sheets")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const defaultSheet = "Sheet1"
	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("new sheet %q: %w", t.Name, err)
		}

		if err := writeRow(f, t.Name, 1, t.Header); err != nil {
			return err
		}
		for r, row := range t.Rows {
			if err := writeRow(f, t.Name, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %q: %w", rowNum, sheet, err)
	}
	return nil
}
