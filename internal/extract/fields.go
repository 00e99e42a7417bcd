package extract

import (
	"regexp"

	"udyami/internal/domain"
)

type valueType int

const (
	textValue valueType = iota
	numberValue
	integerValue
	enumValue
)

// field describes how one record attribute is located in markdown and in tabular rows.
type field struct {
	name     string
	typ      valueType
	required bool
	patterns []*regexp.Regexp
	columns  []string
	enum     func(string) (string, bool)
}

// kindTable is the extraction table entry for one document kind.
type kindTable struct {
	kind      domain.DocumentKind
	signature []marker
	fields    []field
	build     func(values) domain.Record
}

// Value fragments placed after a label. Labels accept the colon inside or
// outside the bold markers and only horizontal whitespace before the value,
// so an empty label never captures the following line.
const (
	textTail    = `[ \t]*([^\n]+)`
	numberTail  = `[ \t]*(?:₹|INR|Rs\.?)?[ \t]*([0-9][0-9,]*\.?[0-9]*)`
	integerTail = `[ \t]*([0-9][0-9,]*)`
	tokenTail   = `[^A-Za-z_\n]*([A-Za-z_]+)`
)

func label(name, tail string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\*\*` + regexp.QuoteMeta(name) + `(?::\*\*|\*\*:)` + tail)
}

func labelMarker(names ...string) marker {
	alts := ""
	for i, n := range names {
		if i > 0 {
			alts += "|"
		}
		alts += regexp.QuoteMeta(n)
	}
	return has(regexp.MustCompile(`(?i)\*\*(?:` + alts + `):\*\*`))
}

func word(w string) marker {
	return has(regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`))
}

var (
	// orderHeading matches production batch headings such as "### ✅ Order ORD-1042".
	orderHeading = regexp.MustCompile(`(?m)^[ \t]*###[ \t]+(?:(?:✅|⚠️|⚠|❌)[ \t]*)?(?i:order[ \t]+([A-Z0-9][A-Z0-9\-_/]*))(?:[ \t:\r]|$)`)

	customerDetails     = regexp.MustCompile(`(?im)Customer Details[^\n]*\n(?s:.*?)^[ \t]*(?:[-*][ \t]+)?\*\*([^*\n:]+)\*\*`)
	finalDecision       = regexp.MustCompile(`(?i)Final Decision(?s:.*?)\*\*([A-Za-z_]+)\*\*`)
	finalRecommendation = regexp.MustCompile(`(?im)Final Recommendation[^\n]*\n(?s:.*?)^[ \t]*(?:[-*>][ \t]+)?\*\*([^*\n]+)\*\*`)
)

func enumOf[T ~string](parse func(string) (T, bool)) func(string) (string, bool) {
	return func(s string) (string, bool) {
		v, ok := parse(s)
		return string(v), ok
	}
}

var kinds = []kindTable{
	{
		kind:      domain.KindQuotation,
		signature: []marker{word("QUOTATION"), labelMarker("Quote ID")},
		fields: []field{
			{name: "quoteId", typ: textValue, required: true, patterns: rx(label("Quote ID", textTail)), columns: cols("Quote ID", "Quotation ID")},
			{name: "customer", typ: textValue, required: true, patterns: rx(label("Customer", textTail), label("Customer Name", textTail)), columns: cols("Customer", "Customer Name")},
			{name: "grandTotal", typ: numberValue, required: true, patterns: rx(label("GRAND TOTAL", numberTail), label("Total Quoted Value", numberTail)), columns: cols("Grand Total (₹)", "Grand Total", "Total Quoted Value")},
			{name: "date", typ: textValue, patterns: rx(label("Date", textTail)), columns: cols("Date", "Quote Date")},
			{name: "validUntil", typ: textValue, patterns: rx(label("Valid Until", textTail)), columns: cols("Valid Until")},
			{name: "requestId", typ: textValue, patterns: rx(label("Request ID", textTail)), columns: cols("Request ID")},
			{name: "product", typ: textValue, patterns: rx(label("Product", textTail)), columns: cols("Product")},
			{name: "quantity", typ: integerValue, patterns: rx(label("Quantity", integerTail)), columns: cols("Quantity")},
			{name: "unitPrice", typ: numberValue, patterns: rx(label("Unit Price", numberTail)), columns: cols("Unit Price (₹)", "Unit Price")},
			{name: "leadTime", typ: integerValue, patterns: rx(label("Lead Time", integerTail)), columns: cols("Lead Time (days)", "Lead Time")},
			{name: "winProbability", typ: enumValue, patterns: rx(label("Win Probability", tokenTail)), columns: cols("Win Probability"), enum: enumOf(domain.ParseWinProbability)},
		},
		build: buildQuotation,
	},
	{
		kind:      domain.KindInvoice,
		signature: []marker{word("INVOICE"), labelMarker("Invoice Number", "Invoice No")},
		fields: []field{
			{name: "invoiceNumber", typ: textValue, required: true, patterns: rx(label("Invoice Number", textTail), label("Invoice No", textTail)), columns: cols("Invoice Number", "Invoice No")},
			{name: "customer", typ: textValue, required: true, patterns: rx(label("Customer", textTail), label("Customer Name", textTail), customerDetails), columns: cols("Customer Name", "Customer")},
			{name: "grandTotal", typ: numberValue, required: true, patterns: rx(label("GRAND TOTAL", numberTail)), columns: cols("Grand Total (₹)", "Grand Total")},
			{name: "balanceDue", typ: numberValue, patterns: rx(label("BALANCE DUE", numberTail)), columns: cols("Balance Due (₹)", "Balance Due")},
			{name: "invoiceDate", typ: textValue, patterns: rx(label("Invoice Date", textTail)), columns: cols("Invoice Date")},
			{name: "dueDate", typ: textValue, patterns: rx(label("Due Date", textTail)), columns: cols("Due Date")},
			{name: "paymentRisk", typ: enumValue, patterns: rx(label("Payment Risk", tokenTail)), columns: cols("Payment Risk"), enum: enumOf(domain.ParsePaymentRisk)},
		},
		build: buildInvoice,
	},
	{
		kind:      domain.KindQuality,
		signature: []marker{word("Quality"), labelMarker("Inspection ID")},
		fields: []field{
			{name: "inspectionId", typ: textValue, required: true, patterns: rx(label("Inspection ID", textTail)), columns: cols("Inspection ID")},
			{name: "batchId", typ: textValue, required: true, patterns: rx(label("Batch ID", textTail)), columns: cols("Batch ID")},
			{name: "timestamp", typ: textValue, patterns: rx(label("Timestamp", textTail)), columns: cols("Timestamp")},
			{name: "productType", typ: textValue, patterns: rx(label("Product Type", textTail)), columns: cols("Product Type")},
			{name: "quantity", typ: integerValue, patterns: rx(label("Quantity", integerTail)), columns: cols("Quantity")},
			{name: "defectRate", typ: numberValue, patterns: rx(label("Defect Rate", numberTail)), columns: cols("Defect Rate %", "Defect Rate")},
			{name: "severityLevel", typ: textValue, patterns: rx(label("Severity Level", textTail)), columns: cols("Severity Level")},
			{name: "decision", typ: enumValue, patterns: rx(finalDecision, label("Decision", tokenTail)), columns: cols("Decision"), enum: enumOf(domain.ParseQualityDecision)},
		},
		build: buildQuality,
	},
	{
		kind: domain.KindProduction,
		signature: []marker{
			anyOf(allOf(word("Production"), word("Order")), has(orderHeading)),
			labelMarker("Decision"),
		},
		fields: []field{
			{name: "orderId", typ: textValue, required: true, patterns: rx(orderHeading, label("Order ID", textTail)), columns: cols("Order ID")},
			{name: "decision", typ: enumValue, required: true, patterns: rx(label("Decision", tokenTail)), columns: cols("Decision"), enum: enumOf(domain.ParseProductionDecision)},
			{name: "riskScore", typ: integerValue, patterns: rx(label("Risk Score", `[ \t]*([0-9]+)`)), columns: cols("Risk Score")},
			{name: "reason", typ: textValue, patterns: rx(label("Reason", textTail)), columns: cols("Reason")},
			{name: "machine", typ: textValue, patterns: rx(label("Machine", textTail)), columns: cols("Machine")},
			{name: "startTime", typ: textValue, patterns: rx(label("Start Time", textTail)), columns: cols("Start Time")},
			{name: "endTime", typ: textValue, patterns: rx(label("End Time", textTail)), columns: cols("End Time")},
		},
		build: buildProduction,
	},
	{
		kind:      domain.KindRnD,
		signature: []marker{word("R&D"), labelMarker("Formulation ID")},
		fields: []field{
			{name: "formulationId", typ: textValue, required: true, patterns: rx(label("Formulation ID", textTail)), columns: cols("Formulation ID")},
			{name: "application", typ: textValue, required: true, patterns: rx(label("Application", textTail)), columns: cols("Application", "Base Polymer", "Key Additives")},
			{name: "generated", typ: textValue, patterns: rx(label("Generated", textTail)), columns: cols("Generated")},
			{name: "standards", typ: textValue, patterns: rx(label("Standards", textTail)), columns: cols("Standards")},
			{name: "costTarget", typ: numberValue, patterns: rx(label("Cost Target", numberTail)), columns: cols("Cost Target")},
			{name: "totalCost", typ: numberValue, patterns: rx(label("Total Cost", numberTail)), columns: cols("Cost (₹/kg)", "Total Cost")},
			{name: "ul94Rating", typ: textValue, patterns: rx(label("UL94 Rating", textTail)), columns: cols("UL94 Rating")},
			{name: "productionReadiness", typ: enumValue, patterns: rx(label("Production Readiness", tokenTail)), columns: cols("Production Readiness"), enum: enumOf(domain.ParseReadiness)},
			{name: "recommendation", typ: textValue, patterns: rx(finalRecommendation, label("Recommendation", textTail)), columns: cols("Recommendation")},
		},
		build: buildRnD,
	},
}

func rx(patterns ...*regexp.Regexp) []*regexp.Regexp { return patterns }

func cols(names ...string) []string { return names }

func tableFor(kind domain.DocumentKind) (*kindTable, bool) {
	for i := range kinds {
		if kinds[i].kind == kind {
			return &kinds[i], true
		}
	}
	return nil, false
}
