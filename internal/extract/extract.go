// Package extract recognizes the five operational document kinds in
// semi-formatted markdown and turns them into canonical domain records.
//
// Extraction fails closed: a block that matches no signature, or matches a
// signature but lacks one of that kind's required fields, yields no record.
// Nothing in this package returns an error or panics on malformed input.
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"udyami/internal/domain"
)

// marker is one element of a kind signature.
type marker func(text string) bool

func has(re *regexp.Regexp) marker {
	return func(text string) bool { return re.MatchString(text) }
}

func allOf(ms ...marker) marker {
	return func(text string) bool {
		for _, m := range ms {
			if !m(text) {
				return false
			}
		}
		return true
	}
}

func anyOf(ms ...marker) marker {
	return func(text string) bool {
		for _, m := range ms {
			if m(text) {
				return true
			}
		}
		return false
	}
}

func normalize(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// Classify returns the first kind, in priority order, whose full signature is
// present in text.
func Classify(text string) (domain.DocumentKind, bool) {
	tbl, ok := classify(normalize(text))
	if !ok {
		return "", false
	}
	return tbl.kind, true
}

func classify(text string) (*kindTable, bool) {
	for i := range kinds {
		if allOf(kinds[i].signature...)(text) {
			return &kinds[i], true
		}
	}
	return nil, false
}

// Extract classifies text and extracts the matched kind's record. When the
// first matching kind lacks a required field the result is absent; lower
// priority kinds are not consulted.
func Extract(text string) (domain.Record, bool) {
	content := normalize(text)
	tbl, ok := classify(content)
	if !ok {
		return nil, false
	}

	vals := make(values, len(tbl.fields))
	for i := range tbl.fields {
		f := &tbl.fields[i]
		if v, ok := f.fromText(content); ok {
			vals[f.name] = v
		}
	}
	return tbl.complete(vals)
}

// complete enforces required fields and builds the typed record.
func (k *kindTable) complete(vals values) (domain.Record, bool) {
	for i := range k.fields {
		if k.fields[i].required && !vals.has(k.fields[i].name) {
			return nil, false
		}
	}
	return k.build(vals), true
}

// fromText tries each pattern in order and returns the first capture that
// converts to a valid value for the field.
func (f *field) fromText(content string) (interface{}, bool) {
	for _, re := range f.patterns {
		m := re.FindStringSubmatch(content)
		if len(m) < 2 {
			continue
		}
		if v, ok := f.convert(m[1]); ok {
			return v, true
		}
	}
	return nil, false
}

func (f *field) convert(raw string) (interface{}, bool) {
	switch f.typ {
	case numberValue:
		n, ok := ParseNumber(raw)
		return n, ok
	case integerValue:
		n, ok := ParseInteger(raw)
		return n, ok
	case enumValue:
		s, ok := f.enum(raw)
		return s, ok
	default:
		v := cleanText(raw)
		return v, v != ""
	}
}

func cleanText(raw string) string {
	v := strings.TrimSpace(raw)
	v = strings.Trim(v, "*")
	return strings.TrimSpace(v)
}

// ParseNumber strips every character that is not an ASCII digit or a decimal
// point and parses the remainder. Empty or non-finite results are absent.
func ParseNumber(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ParseInteger is ParseNumber truncated toward zero.
func ParseInteger(raw string) (int64, bool) {
	n, ok := ParseNumber(raw)
	if !ok || n >= math.MaxInt64 {
		return 0, false
	}
	return int64(math.Trunc(n)), true
}

// values holds converted field values keyed by field name.
type values map[string]interface{}

func (v values) has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v values) text(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v values) optText(name string) *string {
	if s, ok := v[name].(string); ok {
		return &s
	}
	return nil
}

func (v values) number(name string) float64 {
	n, _ := v[name].(float64)
	return n
}

func (v values) optNumber(name string) *float64 {
	if n, ok := v[name].(float64); ok {
		return &n
	}
	return nil
}

func (v values) optInt(name string) *int64 {
	if n, ok := v[name].(int64); ok {
		return &n
	}
	return nil
}

func optEnum[T ~string](v values, name string) *T {
	if s, ok := v[name].(string); ok {
		e := T(s)
		return &e
	}
	return nil
}

func buildQuotation(v values) domain.Record {
	return &domain.Quotation{
		QuoteID:        v.text("quoteId"),
		Customer:       v.text("customer"),
		GrandTotal:     v.number("grandTotal"),
		Date:           v.optText("date"),
		ValidUntil:     v.optText("validUntil"),
		RequestID:      v.optText("requestId"),
		Product:        v.optText("product"),
		Quantity:       v.optInt("quantity"),
		UnitPrice:      v.optNumber("unitPrice"),
		LeadTime:       v.optInt("leadTime"),
		WinProbability: optEnum[domain.WinProbability](v, "winProbability"),
	}
}

func buildInvoice(v values) domain.Record {
	inv := &domain.Invoice{
		InvoiceNumber: v.text("invoiceNumber"),
		Customer:      v.text("customer"),
		GrandTotal:    v.number("grandTotal"),
		InvoiceDate:   v.optText("invoiceDate"),
		DueDate:       v.optText("dueDate"),
		PaymentRisk:   optEnum[domain.PaymentRisk](v, "paymentRisk"),
	}
	inv.BalanceDue = inv.GrandTotal
	if due := v.optNumber("balanceDue"); due != nil {
		inv.BalanceDue = *due
	}
	return inv
}

func buildQuality(v values) domain.Record {
	return &domain.QualityInspection{
		InspectionID:  v.text("inspectionId"),
		BatchID:       v.text("batchId"),
		Timestamp:     v.optText("timestamp"),
		ProductType:   v.optText("productType"),
		Quantity:      v.optInt("quantity"),
		DefectRate:    v.optNumber("defectRate"),
		SeverityLevel: v.optText("severityLevel"),
		Decision:      optEnum[domain.QualityDecision](v, "decision"),
	}
}

func buildProduction(v values) domain.Record {
	return &domain.ProductionOrder{
		OrderID:   v.text("orderId"),
		Decision:  domain.ProductionDecision(v.text("decision")),
		RiskScore: v.optInt("riskScore"),
		Reason:    v.optText("reason"),
		Machine:   v.optText("machine"),
		StartTime: v.optText("startTime"),
		EndTime:   v.optText("endTime"),
	}
}

func buildRnD(v values) domain.Record {
	return &domain.RnDFormulation{
		FormulationID:       v.text("formulationId"),
		Application:         v.text("application"),
		Generated:           v.optText("generated"),
		Standards:           v.optText("standards"),
		CostTarget:          v.optNumber("costTarget"),
		TotalCost:           v.optNumber("totalCost"),
		UL94Rating:          v.optText("ul94Rating"),
		ProductionReadiness: optEnum[domain.Readiness](v, "productionReadiness"),
		Recommendation:      v.optText("recommendation"),
	}
}
