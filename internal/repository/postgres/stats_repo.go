package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"udyami/internal/domain"
	"udyami/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const docStatsQuery = `SELECT
	COUNT(*) AS total_documents,
	COUNT(*) FILTER (WHERE kind = 'quotation') AS quotations,
	COUNT(*) FILTER (WHERE kind = 'invoice') AS invoices,
	COUNT(*) FILTER (WHERE kind = 'quality') AS quality_inspections,
	COUNT(*) FILTER (WHERE kind = 'production') AS production_orders,
	COUNT(*) FILTER (WHERE kind = 'rnd') AS rnd_formulations,
	COALESCE(SUM(total) FILTER (WHERE kind = 'quotation'), 0)::double precision AS quotation_value,
	COUNT(*) FILTER (WHERE kind = 'quotation' AND status = 'HIGH') AS high_probability_quotes,
	COALESCE(SUM(total) FILTER (WHERE kind = 'invoice'), 0)::double precision AS invoice_value,
	COALESCE(SUM((data->>'balanceDue')::double precision) FILTER (WHERE kind = 'invoice'), 0)::double precision AS balance_due,
	COUNT(*) FILTER (WHERE kind = 'invoice' AND status = 'HIGH') AS high_risk_invoices,
	COUNT(*) FILTER (WHERE kind = 'quality' AND status = 'ACCEPT') AS inspections_accepted,
	COUNT(*) FILTER (WHERE kind = 'quality' AND status = 'REJECT') AS inspections_rejected,
	COUNT(*) FILTER (WHERE kind = 'production' AND status = 'PROCEED') AS orders_proceeding,
	COUNT(*) FILTER (WHERE kind = 'production' AND status = 'DELAY') AS orders_delayed,
	COUNT(*) FILTER (WHERE kind = 'rnd' AND status = 'PRODUCTION_READY') AS formulations_ready
FROM documents`

func (r *statsRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if err := r.db.GetContext(ctx, &stats, docStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats: %w", err)
	}
	return &stats, nil
}
