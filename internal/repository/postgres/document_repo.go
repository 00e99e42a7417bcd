package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"udyami/internal/domain"
	"udyami/internal/port"
)

const documentEntity = "documents"

type documentRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB, log *zap.Logger) port.DocumentRepository {
	return &documentRepo{db: db, log: log}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	return r.inTx(ctx, "documentRepo.Create", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO documents (
				id, kind, external_id, customer, status, total,
				data, markdown, source, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			doc.ID, doc.Kind, doc.ExternalID, doc.Customer, doc.Status, doc.Total,
			doc.Data, doc.Markdown, doc.Source, doc.CreatedAt, doc.UpdatedAt)
		if err != nil {
			return err
		}
		return insertAudit(ctx, tx, domain.AuditActionCreate, doc.ID, doc.Data, now)
	})
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, filter domain.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	where, args := buildDocumentFilter(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT * FROM documents%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d", where, n+1, n+2)
	var docs []domain.Document
	if err := r.db.SelectContext(ctx, &docs, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) ListAll(ctx context.Context, kind domain.DocumentKind) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents WHERE kind = $1 ORDER BY created_at ASC", kind)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListAll: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) ListWithMarkdown(ctx context.Context, kind domain.DocumentKind) ([]domain.Document, error) {
	query := "SELECT * FROM documents WHERE markdown IS NOT NULL AND markdown <> ''"
	var args []interface{}
	if kind != "" {
		query += " AND kind = $1"
		args = append(args, kind)
	}
	query += " ORDER BY created_at ASC"

	var docs []domain.Document
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("documentRepo.ListWithMarkdown: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateData(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()

	return r.inTx(ctx, "documentRepo.UpdateData", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE documents SET
				external_id = $1, customer = $2, status = $3, total = $4,
				data = $5, updated_at = $6
			 WHERE id = $7`,
			doc.ExternalID, doc.Customer, doc.Status, doc.Total,
			doc.Data, doc.UpdatedAt, doc.ID)
		if err != nil {
			return err
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return domain.ErrDocumentNotFound
		}
		return insertAudit(ctx, tx, domain.AuditActionUpdate, doc.ID, doc.Data, doc.UpdatedAt)
	})
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.inTx(ctx, "documentRepo.Delete", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
		if err != nil {
			return err
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return domain.ErrDocumentNotFound
		}
		return insertAudit(ctx, tx, domain.AuditActionDelete, id, nil, time.Now().UTC())
	})
}

// inTx runs fn in a transaction. Domain errors from fn pass through
// unwrapped; anything else is wrapped with op.
func (r *documentRepo) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s begin: %w", op, err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.log.Warn("transaction rollback failed", zap.String("op", op), zap.Error(rbErr))
		}
	}()

	if err := fn(tx); err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s commit: %w", op, err)
	}
	return nil
}

func insertAudit(ctx context.Context, tx *sqlx.Tx, action string, entityID uuid.UUID, payload json.RawMessage, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO audit_logs (id, action, entity, entity_id, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), action, documentEntity, entityID, payload, at)
	if err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}

// buildDocumentFilter renders filter as a WHERE clause with positional args.
func buildDocumentFilter(f domain.DocumentFilter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Kind != "" {
		clauses = append(clauses, "kind = "+arg(f.Kind))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg("%" + escapeLike(s) + "%")
		clauses = append(clauses, "(external_id ILIKE "+p+" OR customer ILIKE "+p+")")
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		clauses = append(clauses, "UPPER(status) = UPPER("+arg(s)+")")
	}
	if s := strings.TrimSpace(f.Customer); s != "" {
		clauses = append(clauses, "customer ILIKE "+arg("%"+escapeLike(s)+"%"))
	}
	if f.DateFrom != nil {
		clauses = append(clauses, "created_at >= "+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		clauses = append(clauses, "created_at < "+arg(*f.DateTo))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
