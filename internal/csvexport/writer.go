package csvexport

import (
	"encoding/csv"
	"io"
	"time"

	"udyami/internal/domain"
	"udyami/internal/extract"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// metaColumns lead every export row.
var metaColumns = []string{"Document ID", "Source", "Created At"}

// Header returns the header row for documents of kind: the metadata columns
// followed by the kind's preferred field columns.
func Header(kind domain.DocumentKind) []string {
	fields := extract.Columns(kind)
	out := make([]string, 0, len(metaColumns)+len(fields))
	out = append(out, metaColumns...)
	return append(out, fields...)
}

// Row converts a single document into cells matching Header(doc.Kind).
// When Data does not decode, the field columns are left empty.
func Row(doc *domain.Document) []string {
	row := make([]string, len(Header(doc.Kind)))
	row[0] = doc.ID.String()
	row[1] = string(doc.Source)
	row[2] = doc.CreatedAt.Format(time.RFC3339)

	rec, err := doc.Record()
	if err != nil {
		return row
	}
	copy(row[len(metaColumns):], extract.ToRow(rec))
	return row
}

// Writer wraps csv.Writer for exporting documents of one kind as CSV.
type Writer struct {
	csv  *csv.Writer
	kind domain.DocumentKind
}

// NewWriter creates a Writer that writes CSV rows for kind to w.
func NewWriter(w io.Writer, kind domain.DocumentKind) *Writer {
	return &Writer{csv: csv.NewWriter(w), kind: kind}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Header(w.kind))
}

// WriteDocuments converts a batch of documents to CSV rows and writes them.
// Documents of another kind are skipped.
func (w *Writer) WriteDocuments(docs []domain.Document) error {
	for i := range docs {
		if docs[i].Kind != w.kind {
			continue
		}
		if err := w.csv.Write(Row(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}
