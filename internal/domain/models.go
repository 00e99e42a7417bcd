package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is a persisted structured document together with the text it was extracted from.
type Document struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Kind       DocumentKind    `db:"kind" json:"type"`
	ExternalID *string         `db:"external_id" json:"external_id"`
	Customer   *string         `db:"customer" json:"customer"`
	Status     *string         `db:"status" json:"status"`
	Total      *float64        `db:"total" json:"total"`
	Data       json.RawMessage `db:"data" json:"data" swaggertype:"object"`
	Markdown   *string         `db:"markdown" json:"markdown,omitempty"`
	Source     DocumentSource  `db:"source" json:"source"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// Record decodes the document's data into its typed record.
func (d *Document) Record() (Record, error) {
	return DecodeRecord(d.Kind, d.Data)
}

// AuditLogEntry is an append-only record of a change to a stored entity.
type AuditLogEntry struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Action    string          `db:"action" json:"action"`
	Entity    string          `db:"entity" json:"entity"`
	EntityID  uuid.UUID       `db:"entity_id" json:"entity_id"`
	Payload   json.RawMessage `db:"payload" json:"payload" swaggertype:"object"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Audit actions.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// DocumentFilter narrows document listings. Zero values do not filter.
type DocumentFilter struct {
	Kind     DocumentKind
	Search   string
	Status   string
	Customer string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Stats holds dashboard aggregates over all stored documents.
type Stats struct {
	TotalDocuments        int     `db:"total_documents" json:"total_documents"`
	Quotations            int     `db:"quotations" json:"quotations"`
	Invoices              int     `db:"invoices" json:"invoices"`
	QualityInspections    int     `db:"quality_inspections" json:"quality_inspections"`
	ProductionOrders      int     `db:"production_orders" json:"production_orders"`
	RnDFormulations       int     `db:"rnd_formulations" json:"rnd_formulations"`
	QuotationValue        float64 `db:"quotation_value" json:"quotation_value"`
	HighProbabilityQuotes int     `db:"high_probability_quotes" json:"high_probability_quotes"`
	InvoiceValue          float64 `db:"invoice_value" json:"invoice_value"`
	BalanceDue            float64 `db:"balance_due" json:"balance_due"`
	HighRiskInvoices      int     `db:"high_risk_invoices" json:"high_risk_invoices"`
	InspectionsAccepted   int     `db:"inspections_accepted" json:"inspections_accepted"`
	InspectionsRejected   int     `db:"inspections_rejected" json:"inspections_rejected"`
	OrdersProceeding      int     `db:"orders_proceeding" json:"orders_proceeding"`
	OrdersDelayed         int     `db:"orders_delayed" json:"orders_delayed"`
	FormulationsReady     int     `db:"formulations_ready" json:"formulations_ready"`
}

// Counts returns the per-kind document counts.
func (s *Stats) Counts() map[DocumentKind]int {
	return map[DocumentKind]int{
		KindQuotation:  s.Quotations,
		KindInvoice:    s.Invoices,
		KindQuality:    s.QualityInspections,
		KindProduction: s.ProductionOrders,
		KindRnD:        s.RnDFormulations,
	}
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}
