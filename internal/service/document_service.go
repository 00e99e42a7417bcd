package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"udyami/internal/csvexport"
	"udyami/internal/domain"
	"udyami/internal/eventstream"
	"udyami/internal/extract"
	"udyami/internal/port"
	"udyami/internal/tabular"
)

// ExportFormat selects the export file type.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// SaveDocumentInput is the DTO for the save-document contract.
type SaveDocumentInput struct {
	Kind     string
	Data     json.RawMessage
	Markdown string
	Source   domain.DocumentSource
}

// BackfillResult summarizes a re-extraction pass over stored markdown.
type BackfillResult struct {
	Scanned   int `json:"scanned"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// DocumentService defines the document management contract.
type DocumentService interface {
	Save(ctx context.Context, input *SaveDocumentInput) (*domain.Document, error)
	SaveRecord(ctx context.Context, rec domain.Record, markdown string, source domain.DocumentSource) (*domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, filter domain.DocumentFilter, offset, limit int) ([]domain.Document, int, error)
	ListAudit(ctx context.Context, id uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Export(ctx context.Context, kind domain.DocumentKind, format ExportFormat, w io.Writer) error
	Backfill(ctx context.Context, kind domain.DocumentKind, dryRun bool) (*BackfillResult, error)
}

type documentService struct {
	docRepo   port.DocumentRepository
	auditRepo port.AuditLogRepository
	publisher eventstream.Publisher
	log       *zap.Logger
	now       func() time.Time
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	auditRepo port.AuditLogRepository,
	publisher eventstream.Publisher,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		docRepo:   docRepo,
		auditRepo: auditRepo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *documentService) Save(ctx context.Context, input *SaveDocumentInput) (*domain.Document, error) {
	kind, ok := domain.ParseDocumentKind(input.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, input.Kind)
	}
	rec, err := domain.DecodeRecord(kind, input.Data)
	if err != nil {
		return nil, err
	}
	domain.Normalize(rec)
	if err := domain.ValidateRecord(rec); err != nil {
		return nil, err
	}

	source := input.Source
	if source == "" {
		source = domain.SourceAPI
	}
	return s.SaveRecord(ctx, rec, input.Markdown, source)
}

func (s *documentService) SaveRecord(ctx context.Context, rec domain.Record, markdown string, source domain.DocumentSource) (*domain.Document, error) {
	doc, err := domain.NewDocument(rec, markdown, source)
	if err != nil {
		return nil, err
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	s.log.Info("document saved",
		zap.String("document_id", doc.ID.String()),
		zap.String("type", string(doc.Kind)),
		zap.String("source", string(doc.Source)),
	)

	if err := s.publisher.PublishDocumentSaved(ctx, eventstream.NewDocumentSavedEvent(doc, s.now())); err != nil {
		s.log.Warn("publishing document.saved failed",
			zap.String("document_id", doc.ID.String()), zap.Error(err))
	}
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

func (s *documentService) List(ctx context.Context, filter domain.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	return s.docRepo.List(ctx, filter, offset, limit)
}

func (s *documentService) ListAudit(ctx context.Context, id uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	if _, err := s.docRepo.GetByID(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.auditRepo.ListByEntity(ctx, id, offset, limit)
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("document deleted", zap.String("document_id", id.String()))
	return nil
}

// Export writes every stored document of kind. CSV needs a kind; XLSX with
// no kind writes one sheet per kind.
func (s *documentService) Export(ctx context.Context, kind domain.DocumentKind, format ExportFormat, w io.Writer) error {
	switch format {
	case ExportCSV:
		if kind == "" {
			return fmt.Errorf("%w: csv export needs a document type", domain.ErrInvalidKind)
		}
		docs, err := s.docRepo.ListAll(ctx, kind)
		if err != nil {
			return err
		}
		if _, err := w.Write(csvexport.BOM); err != nil {
			return err
		}
		cw := csvexport.NewWriter(w, kind)
		if err := cw.WriteHeader(); err != nil {
			return err
		}
		if err := cw.WriteDocuments(docs); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()

	case ExportXLSX:
		kinds := domain.AllKinds
		if kind != "" {
			kinds = []domain.DocumentKind{kind}
		}
		tables := make([]*tabular.Table, 0, len(kinds))
		for _, k := range kinds {
			docs, err := s.docRepo.ListAll(ctx, k)
			if err != nil {
				return err
			}
			t := &tabular.Table{Name: tabular.SheetName(k), Header: csvexport.Header(k)}
			for i := range docs {
				t.Rows = append(t.Rows, csvexport.Row(&docs[i]))
			}
			tables = append(tables, t)
		}
		return tabular.WriteWorkbook(w, tables)
	}
	return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
}

// Backfill re-runs the extractor over stored markdown and rewrites documents
// whose data changed. Blocks that no longer extract, or extract as another
// kind, are left untouched.
func (s *documentService) Backfill(ctx context.Context, kind domain.DocumentKind, dryRun bool) (*BackfillResult, error) {
	docs, err := s.docRepo.ListWithMarkdown(ctx, kind)
	if err != nil {
		return nil, err
	}

	res := &BackfillResult{}
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		doc := &docs[i]
		res.Scanned++

		rec, ok := extract.Extract(*doc.Markdown)
		if !ok || rec.Kind() != doc.Kind {
			res.Skipped++
			continue
		}
		fresh, err := domain.NewDocument(rec, *doc.Markdown, doc.Source)
		if err != nil {
			res.Failed++
			continue
		}
		if jsonEqual(fresh.Data, doc.Data) {
			res.Unchanged++
			continue
		}

		doc.ExternalID, doc.Customer, doc.Status, doc.Total, doc.Data =
			fresh.ExternalID, fresh.Customer, fresh.Status, fresh.Total, fresh.Data
		if dryRun {
			res.Updated++
			continue
		}
		if err := s.docRepo.UpdateData(ctx, doc); err != nil {
			s.log.Error("backfill update failed", zap.String("document_id", doc.ID.String()), zap.Error(err))
			res.Failed++
			continue
		}
		res.Updated++
	}
	return res, nil
}

// jsonEqual compares two JSON documents ignoring key order and whitespace.
func jsonEqual(a, b json.RawMessage) bool {
	var va, vb interface{}
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	ma, errA := json.Marshal(va)
	mb, errB := json.Marshal(vb)
	return errA == nil && errB == nil && bytes.Equal(ma, mb)
}
