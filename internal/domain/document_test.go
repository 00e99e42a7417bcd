package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyami/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestNewDocument_Quotation(t *testing.T) {
	rec := &domain.Quotation{
		QuoteID:        "QT-2024-001",
		Customer:       "Shakti Polymers",
		GrandTotal:     44255.37,
		WinProbability: ptr(domain.WinHigh),
	}

	doc, err := domain.NewDocument(rec, "## QUOTATION", domain.SourceChat)
	require.NoError(t, err)

	assert.Equal(t, domain.KindQuotation, doc.Kind)
	assert.Equal(t, "QT-2024-001", *doc.ExternalID)
	assert.Equal(t, "Shakti Polymers", *doc.Customer)
	assert.Equal(t, "HIGH", *doc.Status)
	assert.InDelta(t, 44255.37, *doc.Total, 1e-9)
	assert.Equal(t, "## QUOTATION", *doc.Markdown)
	assert.Equal(t, domain.SourceChat, doc.Source)
	assert.NotEmpty(t, doc.ID)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(doc.Data, &data))
	assert.Equal(t, "QT-2024-001", data["quoteId"])
	assert.NotContains(t, data, "unitPrice")
}

func TestNewDocument_ProductionHasNoCustomerOrTotal(t *testing.T) {
	rec := &domain.ProductionOrder{OrderID: "ORD-7", Decision: domain.ProductionDelay}

	doc, err := domain.NewDocument(rec, "", domain.SourceBatch)
	require.NoError(t, err)

	assert.Equal(t, "DELAY", *doc.Status)
	assert.Nil(t, doc.Customer)
	assert.Nil(t, doc.Total)
	assert.Nil(t, doc.Markdown)
}

func TestNewDocument_RnDTotalFromTotalCost(t *testing.T) {
	rec := &domain.RnDFormulation{
		FormulationID:       "FRM-12",
		Application:         "Cable insulation",
		TotalCost:           ptr(182.5),
		ProductionReadiness: ptr(domain.ReadinessPilotTest),
	}

	doc, err := domain.NewDocument(rec, "", domain.SourceAPI)
	require.NoError(t, err)
	assert.InDelta(t, 182.5, *doc.Total, 1e-9)
	assert.Equal(t, "PILOT_TEST", *doc.Status)
}

func TestNewDocument_NilRecord(t *testing.T) {
	_, err := domain.NewDocument(nil, "", domain.SourceAPI)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestDecodeRecord_RoundTrip(t *testing.T) {
	in := &domain.Invoice{
		InvoiceNumber: "INV-9",
		Customer:      "Acme",
		GrandTotal:    1000,
		BalanceDue:    250,
		PaymentRisk:   ptr(domain.PaymentRiskMedium),
	}
	doc, err := domain.NewDocument(in, "", domain.SourceAPI)
	require.NoError(t, err)

	out, err := doc.Record()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRecord_Errors(t *testing.T) {
	_, err := domain.DecodeRecord("memo", []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = domain.DecodeRecord(domain.KindInvoice, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	_, err = domain.DecodeRecord(domain.KindInvoice, []byte(`{"grandTotal":"abc"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestDecodeRecord_RequiresGrandTotal(t *testing.T) {
	_, err := domain.DecodeRecord(domain.KindQuotation, []byte(`{"quoteId":"QT-1","customer":"Acme"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	assert.Contains(t, err.Error(), "grandTotal")

	_, err = domain.DecodeRecord(domain.KindInvoice, []byte(`{"invoiceNumber":"INV-1","customer":"Acme","grandTotal":null}`))
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	rec, err := domain.DecodeRecord(domain.KindQuotation, []byte(`{"quoteId":"QT-1","customer":"Acme","grandTotal":0}`))
	require.NoError(t, err)
	assert.Zero(t, rec.(*domain.Quotation).GrandTotal)

	_, err = domain.DecodeRecord(domain.KindQuality, []byte(`{"inspectionId":"QI-1","batchId":"B-1"}`))
	assert.NoError(t, err)
}

func TestParseEnums(t *testing.T) {
	v, ok := domain.ParseWinProbability(" high ")
	assert.True(t, ok)
	assert.Equal(t, domain.WinHigh, v)

	_, ok = domain.ParsePaymentRisk("SEVERE")
	assert.False(t, ok)

	d, ok := domain.ParseQualityDecision("conditional_accept")
	assert.True(t, ok)
	assert.Equal(t, domain.QualityConditionalAccept, d)

	p, ok := domain.ParseProductionDecision("Proceed")
	assert.True(t, ok)
	assert.Equal(t, domain.ProductionProceed, p)

	r, ok := domain.ParseReadiness("production_ready")
	assert.True(t, ok)
	assert.Equal(t, domain.ReadinessProductionReady, r)

	k, ok := domain.ParseDocumentKind("RnD")
	assert.True(t, ok)
	assert.Equal(t, domain.KindRnD, k)

	_, ok = domain.ParseDocumentKind("memo")
	assert.False(t, ok)
}

func TestValidateRecord(t *testing.T) {
	assert.NoError(t, domain.ValidateRecord(&domain.Quotation{QuoteID: "QT-1", Customer: "Acme"}))
	assert.NoError(t, domain.ValidateRecord(&domain.ProductionOrder{OrderID: "ORD-1", Decision: domain.ProductionDelay}))

	err := domain.ValidateRecord(&domain.Invoice{InvoiceNumber: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	assert.Contains(t, err.Error(), "invoiceNumber, customer")

	err = domain.ValidateRecord(&domain.ProductionOrder{OrderID: "ORD-1", Decision: "LATER"})
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	assert.Contains(t, err.Error(), "decision")

	assert.ErrorIs(t, domain.ValidateRecord(nil), domain.ErrInvalidDocument)
}

func TestNormalize(t *testing.T) {
	win := domain.WinProbability("medium")
	risk := domain.PaymentRisk("unknown")
	q := &domain.Quotation{WinProbability: &win}
	inv := &domain.Invoice{PaymentRisk: &risk}
	p := &domain.ProductionOrder{Decision: "proceed"}

	domain.Normalize(q)
	domain.Normalize(inv)
	domain.Normalize(p)

	require.NotNil(t, q.WinProbability)
	assert.Equal(t, domain.WinMedium, *q.WinProbability)
	assert.Nil(t, inv.PaymentRisk)
	assert.Equal(t, domain.ProductionProceed, p.Decision)
}
