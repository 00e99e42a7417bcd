package port

import (
	"context"

	"github.com/google/uuid"

	"udyami/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	// Create stores doc and its "create" audit entry in one transaction and
	// fills the generated timestamps.
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, filter domain.DocumentFilter, offset, limit int) ([]domain.Document, int, error)
	ListAll(ctx context.Context, kind domain.DocumentKind) ([]domain.Document, error)
	ListWithMarkdown(ctx context.Context, kind domain.DocumentKind) ([]domain.Document, error)
	UpdateData(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}
