package port

import (
	"context"

	"github.com/google/uuid"

	"udyami/internal/domain"
)

// AuditLogRepository reads the audit trail written alongside document changes.
type AuditLogRepository interface {
	ListByEntity(ctx context.Context, entityID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error)
}
