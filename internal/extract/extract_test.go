package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyami/internal/domain"
	"udyami/internal/extract"
)

const quotationMD = `# 📋 QUOTATION

**Quote ID:** QT-2024-0142
**Date:** 2024-03-12
**Valid Until:** 2024-04-11

## Customer Information
- **Customer:** Shakti Polymers Pvt Ltd
- **Request ID:** REQ-88
- **Product:** FR-PP Compound Grade V0
- **Quantity:** 5,000 kg
- **Unit Price:** ₹185.50/kg
- **Lead Time:** 21 days

## Pricing
- **Subtotal:** ₹927,500.00
- **GRAND TOTAL:** ₹1,094,450.00

## Assessment
- **Win Probability:** high
`

const invoiceMD = `# INVOICE

**Invoice Number:** INV-2024-0311
**Invoice Date:** 2024-03-15
**Due Date:** 2024-04-14

**Customer Details**
**Mahalaxmi Cables Ltd**
Plot 12, MIDC Bhosari, Pune

## Amounts
- **Subtotal:** ₹40,000.00
- **GRAND TOTAL:** ₹47,200.00
- **BALANCE DUE:** ₹22,200.00
- **Payment Risk:** Medium
`

const qualityMD = `## 🔍 Quality Inspection Report

**Inspection ID:** QI-7781
**Batch ID:** B-2024-115
**Timestamp:** 2024-03-15 10:42

### Batch Details
- **Product Type:** FR-PP Compound
- **Quantity:** 2,500 units
- **Defect Rate:** 1.8%
- **Severity Level:** Minor

### ✅ Final Decision
**CONDITIONAL_ACCEPT**
`

const productionMD = `# Production Order Decision

### ✅ Order ORD-1042
- **Decision:** PROCEED
- **Risk Score:** 3/10
- **Reason:** Materials in stock
- **Machine:** Extruder-2
- **Start Time:** 2024-03-16 06:00
- **End Time:** 2024-03-16 18:00
`

const rndMD = `# 🧪 R&D Formulation Report

**Formulation ID:** FRM-2024-031
**Generated:** 2024-03-10

## Requirements
- **Application:** Automotive wire harness insulation
- **Standards:** UL94 V-0, RoHS
- **Cost Target:** ₹190/kg

## Cost Analysis
**Total Cost:** ₹182.40/kg

## Performance
- **UL94 Rating:** V-0
- **Production Readiness:** PILOT_TEST

## Final Recommendation
**Proceed to pilot batch of 500 kg**
`

func TestExtract_Quotation(t *testing.T) {
	rec, ok := extract.Extract(quotationMD)
	require.True(t, ok)

	q, isQuote := rec.(*domain.Quotation)
	require.True(t, isQuote)
	assert.Equal(t, "QT-2024-0142", q.QuoteID)
	assert.Equal(t, "Shakti Polymers Pvt Ltd", q.Customer)
	assert.InDelta(t, 1094450.0, q.GrandTotal, 1e-9)
	assert.Equal(t, "2024-03-12", *q.Date)
	assert.Equal(t, "2024-04-11", *q.ValidUntil)
	assert.Equal(t, "REQ-88", *q.RequestID)
	assert.Equal(t, "FR-PP Compound Grade V0", *q.Product)
	assert.Equal(t, int64(5000), *q.Quantity)
	assert.InDelta(t, 185.5, *q.UnitPrice, 1e-9)
	assert.Equal(t, int64(21), *q.LeadTime)
	assert.Equal(t, domain.WinHigh, *q.WinProbability)
}

func TestExtract_MinimalQuotationScenario(t *testing.T) {
	text := "## QUOTATION\n**Quote ID:** QT_1\n**Customer:** Acme\n**GRAND TOTAL:** 1000.00\n"

	rec, ok := extract.Extract(text)
	require.True(t, ok)
	assert.Equal(t, &domain.Quotation{QuoteID: "QT_1", Customer: "Acme", GrandTotal: 1000}, rec)
}

func TestExtract_QuotationTotalQuotedValueFallback(t *testing.T) {
	text := "QUOTATION\n**Quote ID:** Q-9\n**Customer:** Acme\n**Total Quoted Value:** ₹ 12,500\n"

	rec, ok := extract.Extract(text)
	require.True(t, ok)
	assert.InDelta(t, 12500.0, rec.(*domain.Quotation).GrandTotal, 1e-9)
}

func TestExtract_Invoice(t *testing.T) {
	rec, ok := extract.Extract(invoiceMD)
	require.True(t, ok)

	inv := rec.(*domain.Invoice)
	assert.Equal(t, "INV-2024-0311", inv.InvoiceNumber)
	assert.Equal(t, "Mahalaxmi Cables Ltd", inv.Customer)
	assert.InDelta(t, 47200.0, inv.GrandTotal, 1e-9)
	assert.InDelta(t, 22200.0, inv.BalanceDue, 1e-9)
	assert.Equal(t, "2024-03-15", *inv.InvoiceDate)
	assert.Equal(t, "2024-04-14", *inv.DueDate)
	assert.Equal(t, domain.PaymentRiskMedium, *inv.PaymentRisk)
}

func TestExtract_InvoiceBalanceDueDefaultsToGrandTotal(t *testing.T) {
	text := "INVOICE\n**Invoice No:** 77\n**Customer:** Acme\n- **GRAND TOTAL:** 5,000\n"

	rec, ok := extract.Extract(text)
	require.True(t, ok)

	inv := rec.(*domain.Invoice)
	assert.Equal(t, "77", inv.InvoiceNumber)
	assert.InDelta(t, 5000.0, inv.BalanceDue, 1e-9)
	assert.Nil(t, inv.PaymentRisk)
}

func TestExtract_InvoiceWithoutNumberIsAbsent(t *testing.T) {
	text := "INVOICE\n**Customer:** Acme\n- **GRAND TOTAL:** 5,000\n"

	_, ok := extract.Extract(text)
	assert.False(t, ok)
}

func TestExtract_Quality(t *testing.T) {
	rec, ok := extract.Extract(qualityMD)
	require.True(t, ok)

	qi := rec.(*domain.QualityInspection)
	assert.Equal(t, "QI-7781", qi.InspectionID)
	assert.Equal(t, "B-2024-115", qi.BatchID)
	assert.Equal(t, "2024-03-15 10:42", *qi.Timestamp)
	assert.Equal(t, "FR-PP Compound", *qi.ProductType)
	assert.Equal(t, int64(2500), *qi.Quantity)
	assert.InDelta(t, 1.8, *qi.DefectRate, 1e-9)
	assert.Equal(t, "Minor", *qi.SeverityLevel)
	assert.Equal(t, domain.QualityConditionalAccept, *qi.Decision)
}

func TestExtract_Production(t *testing.T) {
	rec, ok := extract.Extract(productionMD)
	require.True(t, ok)

	po := rec.(*domain.ProductionOrder)
	assert.Equal(t, "ORD-1042", po.OrderID)
	assert.Equal(t, domain.ProductionProceed, po.Decision)
	assert.Equal(t, int64(3), *po.RiskScore)
	assert.Equal(t, "Materials in stock", *po.Reason)
	assert.Equal(t, "Extruder-2", *po.Machine)
	assert.Equal(t, "2024-03-16 06:00", *po.StartTime)
	assert.Equal(t, "2024-03-16 18:00", *po.EndTime)
}

func TestExtract_ProductionOrderIDLabel(t *testing.T) {
	text := "Production plan\n- **Order ID:** PO/77\n- **Decision:** delay\n"

	rec, ok := extract.Extract(text)
	require.True(t, ok)
	po := rec.(*domain.ProductionOrder)
	assert.Equal(t, "PO/77", po.OrderID)
	assert.Equal(t, domain.ProductionDelay, po.Decision)
}

func TestExtract_ProductionUnknownDecisionIsAbsent(t *testing.T) {
	text := "Production Order\n### Order ORD-1\n- **Decision:** MAYBE\n"

	_, ok := extract.Extract(text)
	assert.False(t, ok)
}

func TestExtract_RnD(t *testing.T) {
	rec, ok := extract.Extract(rndMD)
	require.True(t, ok)

	f := rec.(*domain.RnDFormulation)
	assert.Equal(t, "FRM-2024-031", f.FormulationID)
	assert.Equal(t, "Automotive wire harness insulation", f.Application)
	assert.Equal(t, "2024-03-10", *f.Generated)
	assert.Equal(t, "UL94 V-0, RoHS", *f.Standards)
	assert.InDelta(t, 190.0, *f.CostTarget, 1e-9)
	assert.InDelta(t, 182.4, *f.TotalCost, 1e-9)
	assert.Equal(t, "V-0", *f.UL94Rating)
	assert.Equal(t, domain.ReadinessPilotTest, *f.ProductionReadiness)
	assert.Equal(t, "Proceed to pilot batch of 500 kg", *f.Recommendation)
}

func TestExtract_MissingRequiredFieldVoidsRecord(t *testing.T) {
	tests := []struct {
		name string
		text string
		drop string
	}{
		{"quotation customer", quotationMD, "- **Customer:** Shakti Polymers Pvt Ltd\n"},
		{"quotation total", quotationMD, "- **GRAND TOTAL:** ₹1,094,450.00\n"},
		{"invoice customer", invoiceMD, "**Mahalaxmi Cables Ltd**\n"},
		{"invoice total", invoiceMD, "- **GRAND TOTAL:** ₹47,200.00\n"},
		{"quality batch", qualityMD, "**Batch ID:** B-2024-115\n"},
		{"rnd application", rndMD, "- **Application:** Automotive wire harness insulation\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Contains(t, tt.text, tt.drop)
			_, ok := extract.Extract(strings.Replace(tt.text, tt.drop, "", 1))
			assert.False(t, ok)
		})
	}
}

func TestExtract_EmptyLabelDoesNotCaptureNextLine(t *testing.T) {
	text := "QUOTATION\n**Quote ID:** Q-1\n**Customer:**\n**GRAND TOTAL:** 1000\n"

	_, ok := extract.Extract(text)
	assert.False(t, ok)
}

func TestExtract_UnknownEnumIsAbsent(t *testing.T) {
	text := strings.Replace(quotationMD, "**Win Probability:** high", "**Win Probability:** certain", 1)

	rec, ok := extract.Extract(text)
	require.True(t, ok)
	assert.Nil(t, rec.(*domain.Quotation).WinProbability)
}

func TestExtract_NonNumericTotalIsAbsent(t *testing.T) {
	text := "QUOTATION\n**Quote ID:** Q-1\n**Customer:** Acme\n**GRAND TOTAL:** TBD\n"

	_, ok := extract.Extract(text)
	assert.False(t, ok)
}

func TestExtract_CRLF(t *testing.T) {
	rec, ok := extract.Extract(strings.ReplaceAll(invoiceMD, "\n", "\r\n"))
	require.True(t, ok)
	assert.Equal(t, "Mahalaxmi Cables Ltd", rec.(*domain.Invoice).Customer)
	assert.Equal(t, "INV-2024-0311", rec.(*domain.Invoice).InvoiceNumber)
}

func TestExtract_NoSignature(t *testing.T) {
	for _, text := range []string{
		"",
		"Hello! How can I help with your production planning today?",
		"**Quote ID:** Q-1\n**Customer:** Acme\n**GRAND TOTAL:** 10",
		"QUOTATION for Acme, total 1000",
	} {
		_, ok := extract.Extract(text)
		assert.False(t, ok, text)
	}
}

func TestClassify_PriorityOrderWithoutFallThrough(t *testing.T) {
	// Both quotation and invoice signatures are present; the quotation lacks
	// its customer so the block yields nothing even though the invoice is complete.
	text := "QUOTATION\n**Quote ID:** Q-1\n\n" + invoiceMD

	kind, ok := extract.Classify(text)
	require.True(t, ok)
	assert.Equal(t, domain.KindQuotation, kind)

	_, ok = extract.Extract(text)
	assert.False(t, ok)
}

func TestClassify_EachKind(t *testing.T) {
	cases := map[string]domain.DocumentKind{
		quotationMD:  domain.KindQuotation,
		invoiceMD:    domain.KindInvoice,
		qualityMD:    domain.KindQuality,
		productionMD: domain.KindProduction,
		rndMD:        domain.KindRnD,
	}
	for text, want := range cases {
		got, ok := extract.Classify(text)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"44255.37", 44255.37, true},
		{"₹44,255.37", 44255.37, true},
		{"₹ 1,20,000", 120000, true},
		{"12%", 12, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{".", 0, false},
	}
	for _, tt := range tests {
		got, ok := extract.ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, tt.in)
		}
	}
}

func TestParseNumber_Idempotent(t *testing.T) {
	a, ok := extract.ParseNumber("44255.37")
	require.True(t, ok)
	b, ok := extract.ParseNumber("₹44,255.37")
	require.True(t, ok)
	assert.Equal(t, a, b)
}

func TestParseInteger_Truncates(t *testing.T) {
	n, ok := extract.ParseInteger("7.9 days")
	require.True(t, ok)
	assert.Equal(t, int64(7), n)
}

func TestParseInteger_RejectsOutOfRange(t *testing.T) {
	n, ok := extract.ParseInteger("4611686018427387904")
	require.True(t, ok)
	assert.Equal(t, int64(1)<<62, n)

	_, ok = extract.ParseInteger("9223372036854775808")
	assert.False(t, ok)

	_, ok = extract.ParseInteger("100000000000000000000000000000")
	assert.False(t, ok)
}

func TestExtract_OversizedQuantityIsAbsent(t *testing.T) {
	text := "## QUOTATION\n**Quote ID:** QT-9\n**Customer:** Acme\n**GRAND TOTAL:** 100\n**Quantity:** 9,223,372,036,854,775,808\n"

	rec, ok := extract.Extract(text)
	require.True(t, ok)
	assert.Nil(t, rec.(*domain.Quotation).Quantity)
}

func TestExtract_LowercaseOrderHeading(t *testing.T) {
	rec, ok := extract.Extract("### Order ord-12\n- **Decision:** proceed\n")
	require.True(t, ok)

	order := rec.(*domain.ProductionOrder)
	assert.Equal(t, "ord-12", order.OrderID)
	assert.Equal(t, domain.ProductionProceed, order.Decision)
}
