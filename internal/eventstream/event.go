// Package eventstream defines document lifecycle events and the publisher
// contract for shipping them to a stream backend.
package eventstream

import (
	"time"

	"github.com/google/uuid"

	"udyami/internal/domain"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeDocumentSaved is emitted after a document and its audit entry are committed.
	EventTypeDocumentSaved = "udyami.document.saved"
)

// DocumentSavedEvent is a transport-neutral payload for a stored document.
type DocumentSavedEvent struct {
	SchemaVersion int               `json:"schema_version"`
	EventType     string            `json:"event_type"`
	EventID       string            `json:"event_id"`
	EmittedAt     time.Time         `json:"emitted_at"`
	Document      DocumentReference `json:"document"`
}

// DocumentReference summarizes the stored document.
type DocumentReference struct {
	ID         uuid.UUID             `json:"id"`
	Kind       domain.DocumentKind   `json:"type"`
	Source     domain.DocumentSource `json:"source"`
	ExternalID *string               `json:"external_id,omitempty"`
	Customer   *string               `json:"customer,omitempty"`
	Status     *string               `json:"status,omitempty"`
	Total      *float64              `json:"total,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

// NewDocumentSavedEvent builds the event for doc.
func NewDocumentSavedEvent(doc *domain.Document, now time.Time) *DocumentSavedEvent {
	return &DocumentSavedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeDocumentSaved,
		EventID:       uuid.NewString(),
		EmittedAt:     now.UTC(),
		Document: DocumentReference{
			ID:         doc.ID,
			Kind:       doc.Kind,
			Source:     doc.Source,
			ExternalID: doc.ExternalID,
			Customer:   doc.Customer,
			Status:     doc.Status,
			Total:      doc.Total,
			CreatedAt:  doc.CreatedAt,
		},
	}
}
