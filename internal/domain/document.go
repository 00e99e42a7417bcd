package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// NewDocument builds the storable row for a record. The external id, customer,
// status and total columns are derived from the record so that listings and
// dashboard aggregates never need to decode Data.
func NewDocument(rec Record, markdown string, source DocumentSource) (*Document, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil record", ErrInvalidDocument)
	}

	doc := &Document{
		ID:     uuid.New(),
		Kind:   rec.Kind(),
		Source: source,
	}

	switch r := rec.(type) {
	case *Quotation:
		doc.ExternalID = optString(r.QuoteID)
		doc.Customer = optString(r.Customer)
		if r.WinProbability != nil {
			doc.Status = optString(string(*r.WinProbability))
		}
		doc.Total = optFloat(r.GrandTotal)
	case *Invoice:
		doc.ExternalID = optString(r.InvoiceNumber)
		doc.Customer = optString(r.Customer)
		if r.PaymentRisk != nil {
			doc.Status = optString(string(*r.PaymentRisk))
		}
		doc.Total = optFloat(r.GrandTotal)
	case *QualityInspection:
		doc.ExternalID = optString(r.InspectionID)
		if r.Decision != nil {
			doc.Status = optString(string(*r.Decision))
		}
	case *ProductionOrder:
		doc.ExternalID = optString(r.OrderID)
		doc.Status = optString(string(r.Decision))
	case *RnDFormulation:
		doc.ExternalID = optString(r.FormulationID)
		if r.ProductionReadiness != nil {
			doc.Status = optString(string(*r.ProductionReadiness))
		}
		if r.TotalCost != nil {
			doc.Total = optFloat(*r.TotalCost)
		}
	default:
		return nil, fmt.Errorf("%w: unknown record type %T", ErrInvalidDocument, rec)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("domain.NewDocument: %w", err)
	}
	doc.Data = data
	doc.Markdown = optString(markdown)
	return doc, nil
}

// DecodeRecord parses stored JSON data back into the typed record for kind.
// Quotations and invoices must carry grandTotal.
func DecodeRecord(kind DocumentKind, data []byte) (Record, error) {
	rec, err := NewRecord(kind)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidDocument)
	}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if kind == KindQuotation || kind == KindInvoice {
		var amounts struct {
			GrandTotal *float64 `json:"grandTotal"`
		}
		if err := json.Unmarshal(data, &amounts); err != nil || amounts.GrandTotal == nil {
			return nil, fmt.Errorf("%w: missing grandTotal", ErrInvalidDocument)
		}
	}
	return rec, nil
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optFloat(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ValidateRecord checks the identifying fields every stored record must carry.
func ValidateRecord(rec Record) error {
	var missing []string
	need := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	switch r := rec.(type) {
	case *Quotation:
		need("quoteId", r.QuoteID)
		need("customer", r.Customer)
	case *Invoice:
		need("invoiceNumber", r.InvoiceNumber)
		need("customer", r.Customer)
	case *QualityInspection:
		need("inspectionId", r.InspectionID)
		need("batchId", r.BatchID)
	case *ProductionOrder:
		need("orderId", r.OrderID)
		if _, ok := ParseProductionDecision(string(r.Decision)); !ok {
			missing = append(missing, "decision")
		}
	case *RnDFormulation:
		need("formulationId", r.FormulationID)
		need("application", r.Application)
	default:
		return fmt.Errorf("%w: unknown record type %T", ErrInvalidDocument, rec)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDocument, strings.Join(missing, ", "))
	}
	return nil
}

// Normalize rewrites the enumerated fields of rec to their canonical tokens.
// Unrecognized optional tokens become absent.
func Normalize(rec Record) {
	switch r := rec.(type) {
	case *Quotation:
		r.WinProbability = normalizeOpt(r.WinProbability, ParseWinProbability)
	case *Invoice:
		r.PaymentRisk = normalizeOpt(r.PaymentRisk, ParsePaymentRisk)
	case *QualityInspection:
		r.Decision = normalizeOpt(r.Decision, ParseQualityDecision)
	case *ProductionOrder:
		if d, ok := ParseProductionDecision(string(r.Decision)); ok {
			r.Decision = d
		}
	case *RnDFormulation:
		r.ProductionReadiness = normalizeOpt(r.ProductionReadiness, ParseReadiness)
	}
}

func normalizeOpt[T ~string](v *T, parse func(string) (T, bool)) *T {
	if v == nil {
		return nil
	}
	canonical, ok := parse(string(*v))
	if !ok {
		return nil
	}
	return &canonical
}
