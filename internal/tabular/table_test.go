package tabular_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyami/internal/domain"
	"udyami/internal/tabular"
)

const quotationCSV = "\ufeffQuote ID,Customer,Grand Total (₹),Product,Lead Time (days)\n" +
	"QT-1,\"Acme Polymers, Pune\",\"1,20,000\",\"PP\nGranules\",14\n" +
	"\n" +
	"QT-2,Bharat Wires,,Cable,7\n" +
	"QT-3,Shakti Plastics,45000\n"

func TestReadCSV(t *testing.T) {
	tbl, err := tabular.ReadCSV(strings.NewReader(quotationCSV))
	require.NoError(t, err)

	assert.Len(t, tbl.Header, 5)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "Acme Polymers, Pune", tbl.Rows[0][1])
	assert.Equal(t, "PP\nGranules", tbl.Rows[0][3])
	assert.Len(t, tbl.Rows[2], 3)
}

func TestTable_Records(t *testing.T) {
	tbl, err := tabular.ReadCSV(strings.NewReader(quotationCSV))
	require.NoError(t, err)

	recs, skipped := tbl.Records(domain.KindQuotation)

	assert.Equal(t, 1, skipped)
	require.Len(t, recs, 2)
	first := recs[0].(*domain.Quotation)
	assert.Equal(t, "QT-1", first.QuoteID)
	assert.InDelta(t, 120000.0, first.GrandTotal, 1e-9)
	second := recs[1].(*domain.Quotation)
	assert.Equal(t, "QT-3", second.QuoteID)
	assert.Nil(t, second.Product)
}

func TestNewTable_SkipsLeadingBlankRows(t *testing.T) {
	tbl := tabular.NewTable("x", [][]string{{"", " "}, {"Order ID", "Decision"}, {"ORD-1", "PROCEED"}})

	assert.Equal(t, []string{"Order ID", "Decision"}, tbl.Header)
	assert.Len(t, tbl.Rows, 1)

	empty := tabular.NewTable("y", nil)
	assert.Nil(t, empty.Header)
	assert.Empty(t, empty.Rows)
}

func TestKindForSheet(t *testing.T) {
	cases := map[string]domain.DocumentKind{
		"Orders - QuotationResult":   domain.KindQuotation,
		"orders - invoiceresult":     domain.KindInvoice,
		"Orders - QualityResult.csv": domain.KindQuality,
		"Orders - ProductionResult":  domain.KindProduction,
		"Orders - RnDResult":         domain.KindRnD,
		" rnd ":                      domain.KindRnD,
		"production":                 domain.KindProduction,
	}
	for name, want := range cases {
		got, ok := tabular.KindForSheet(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := tabular.KindForSheet("Summary")
	assert.False(t, ok)
}

func TestWorkbook_RoundTrip(t *testing.T) {
	tables := []*tabular.Table{
		{
			Name:   tabular.SheetName(domain.KindProduction),
			Header: []string{"Order ID", "Decision", "Risk Score"},
			Rows:   [][]string{{"ORD-1", "PROCEED", "2"}, {"ORD-2", "DELAY", ""}},
		},
		{
			Name:   tabular.SheetName(domain.KindRnD),
			Header: []string{"Formulation ID", "Application"},
			Rows:   [][]string{{"FRM-1", "Cable sheathing"}},
		},
		{
			Name:   "Notes",
			Header: []string{"free text"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, tabular.WriteWorkbook(&buf, tables))

	got, err := tabular.ReadWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got, 2)

	prod := got[domain.KindProduction]
	require.NotNil(t, prod)
	assert.Equal(t, []string{"Order ID", "Decision", "Risk Score"}, prod.Header)
	require.Len(t, prod.Rows, 2)
	assert.Equal(t, "ORD-2", prod.Rows[1][0])

	recs, skipped := prod.Records(domain.KindProduction)
	assert.Zero(t, skipped)
	assert.Len(t, recs, 2)

	rnd := got[domain.KindRnD]
	require.NotNil(t, rnd)
	assert.Equal(t, "Cable sheathing", rnd.Rows[0][1])
}

func TestWriteWorkbook_NoTables(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, tabular.WriteWorkbook(&buf, nil))
}

func TestReadWorkbook_NotAWorkbook(t *testing.T) {
	_, err := tabular.ReadWorkbook(strings.NewReader("plain text"))
	assert.Error(t, err)
}
