package csvexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyami/internal/domain"
)

func quotationDoc(t *testing.T) domain.Document {
	t.Helper()
	win := domain.WinHigh
	qty := int64(500)
	data, err := json.Marshal(&domain.Quotation{
		QuoteID:        "QT-9",
		Customer:       "Acme Polymers",
		GrandTotal:     59000,
		Quantity:       &qty,
		WinProbability: &win,
	})
	require.NoError(t, err)
	return domain.Document{
		ID:        uuid.MustParse("8a4e2f0c-8f2e-4f69-9b54-0c3a1f2b7d11"),
		Kind:      domain.KindQuotation,
		Data:      data,
		Source:    domain.SourceChat,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func readAll(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	r := csv.NewReader(buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, domain.KindQuotation)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	rows := readAll(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, "Document ID", rows[0][0])
	assert.Equal(t, "Quote ID", rows[0][3])
	assert.Equal(t, Header(domain.KindQuotation), rows[0])
}

func TestWriteDocuments(t *testing.T) {
	doc := quotationDoc(t)
	other := domain.Document{ID: uuid.New(), Kind: domain.KindInvoice, Data: json.RawMessage(`{}`)}

	var buf bytes.Buffer
	w := NewWriter(&buf, domain.KindQuotation)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocuments([]domain.Document{doc, other}))
	w.Flush()
	require.NoError(t, w.Error())

	rows := readAll(t, &buf)
	require.Len(t, rows, 2)

	header, row := rows[0], rows[1]
	cell := func(name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("column %q not found", name)
		return ""
	}
	assert.Equal(t, doc.ID.String(), cell("Document ID"))
	assert.Equal(t, "chat", cell("Source"))
	assert.Equal(t, "2026-03-01T10:00:00Z", cell("Created At"))
	assert.Equal(t, "QT-9", cell("Quote ID"))
	assert.Equal(t, "Acme Polymers", cell("Customer"))
	assert.Equal(t, "59000", cell("Grand Total (₹)"))
	assert.Equal(t, "500", cell("Quantity"))
}

func TestRow_UndecodableData(t *testing.T) {
	doc := quotationDoc(t)
	doc.Data = json.RawMessage(`not json`)

	row := Row(&doc)
	assert.Len(t, row, len(Header(domain.KindQuotation)))
	assert.Equal(t, doc.ID.String(), row[0])
	for _, c := range row[3:] {
		assert.Empty(t, c)
	}
}
