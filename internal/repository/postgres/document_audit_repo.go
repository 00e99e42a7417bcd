package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"udyami/internal/domain"
	"udyami/internal/port"
)

type auditLogRepo struct {
	db *sqlx.DB
}

// NewAuditLogRepo creates a new PostgreSQL-backed AuditLogRepository.
func NewAuditLogRepo(db *sqlx.DB) port.AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) ListByEntity(ctx context.Context, entityID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM audit_logs WHERE entity = $1 AND entity_id = $2`,
		documentEntity, entityID)
	if err != nil {
		return nil, 0, fmt.Errorf("auditLogRepo.ListByEntity count: %w", err)
	}

	var entries []domain.AuditLogEntry
	err = r.db.SelectContext(ctx, &entries,
		`SELECT * FROM audit_logs
		 WHERE entity = $1 AND entity_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		documentEntity, entityID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("auditLogRepo.ListByEntity: %w", err)
	}
	return entries, total, nil
}
