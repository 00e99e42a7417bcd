// Package tabular reads and writes spreadsheet-shaped data (CSV files,
// xlsx workbooks, Sheets ranges) and maps rows onto document records.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"udyami/internal/domain"
	"udyami/internal/extract"
)

// Table is a header row plus data rows. Rows may be ragged.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// NewTable splits raw rows into header and data. Leading empty rows are skipped.
func NewTable(name string, raw [][]string) *Table {
	t := &Table{Name: name}
	for len(raw) > 0 && blank(raw[0]) {
		raw = raw[1:]
	}
	if len(raw) == 0 {
		return t
	}
	t.Header = raw[0]
	for _, row := range raw[1:] {
		if !blank(row) {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// Records maps every row onto a record of kind. Rows that do not yield a
// complete record are counted in skipped.
func (t *Table) Records(kind domain.DocumentKind) (recs []domain.Record, skipped int) {
	for _, row := range t.Rows {
		rec, ok := extract.FromRow(kind, t.Header, row)
		if !ok {
			skipped++
			continue
		}
		recs = append(recs, rec)
	}
	return recs, skipped
}

// ReadCSV parses a CSV stream. Quoted cells with embedded commas and
// newlines are supported and rows may have differing lengths.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var raw [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tabular.ReadCSV: %w", err)
		}
		raw = append(raw, row)
	}
	return NewTable("", raw), nil
}

var sheetNames = map[domain.DocumentKind]string{
	domain.KindQuotation:  "Orders - QuotationResult",
	domain.KindInvoice:    "Orders - InvoiceResult",
	domain.KindQuality:    "Orders - QualityResult",
	domain.KindProduction: "Orders - ProductionResult",
	domain.KindRnD:        "Orders - RnDResult",
}

// SheetName is the canonical sheet (or CSV file stem) name for kind.
func SheetName(kind domain.DocumentKind) string {
	return sheetNames[kind]
}

// KindForSheet resolves a sheet or file name to a document kind. Canonical
// export names, a ".csv" suffix and bare kind names are all accepted.
func KindForSheet(name string) (domain.DocumentKind, bool) {
	n := strings.TrimSpace(name)
	n = strings.TrimSuffix(strings.TrimSuffix(n, ".csv"), ".CSV")
	for kind, sheet := range sheetNames {
		if strings.EqualFold(n, sheet) {
			return kind, true
		}
	}
	return domain.ParseDocumentKind(n)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
