package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"udyami/internal/domain"
	"udyami/internal/extract"
	"udyami/internal/port"
	"udyami/internal/tabular"
)

// ImportFailure is one block or row that extracted cleanly but could not be stored.
type ImportFailure struct {
	Index      int                 `json:"index"`
	Kind       domain.DocumentKind `json:"type,omitempty"`
	ExternalID string              `json:"external_id,omitempty"`
	Error      string              `json:"error"`
}

// ImportResult summarizes a bulk import. Blocks counts markdown blocks or
// table rows examined; Skipped counts those that yielded no record.
type ImportResult struct {
	Blocks     int               `json:"blocks"`
	Saved      int               `json:"saved"`
	Skipped    int               `json:"skipped"`
	Failures   []ImportFailure   `json:"failures"`
	Documents  []domain.Document `json:"documents"`
	ArchiveKey string            `json:"archive_key,omitempty"`
}

// ImportOptions configures archiving and the Sheets range.
type ImportOptions struct {
	Bucket     string
	Prefix     string
	SheetRange string
}

// ImportService loads many documents at once from markdown reports,
// CSV files, workbooks or Google Sheets.
type ImportService interface {
	ImportMarkdown(ctx context.Context, text string) (*ImportResult, error)
	ImportCSV(ctx context.Context, kind domain.DocumentKind, filename string, r io.Reader) (*ImportResult, error)
	ImportWorkbook(ctx context.Context, filename string, r io.Reader) (*ImportResult, error)
	ImportSheets(ctx context.Context) (*ImportResult, error)
}

type importService struct {
	docs    DocumentService
	storage port.ObjectStorage
	sheets  port.SheetReader
	opts    ImportOptions
	log     *zap.Logger
	now     func() time.Time
}

// NewImportService creates a new ImportService. storage and sheets may be nil
// when archiving or Sheets access is disabled.
func NewImportService(
	docs DocumentService,
	storage port.ObjectStorage,
	sheets port.SheetReader,
	opts ImportOptions,
	log *zap.Logger,
) ImportService {
	if opts.SheetRange == "" {
		opts.SheetRange = "A1:Z1000"
	}
	return &importService{
		docs:    docs,
		storage: storage,
		sheets:  sheets,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

type pendingRecord struct {
	index    int
	rec      domain.Record
	markdown string
}

func (s *importService) ImportMarkdown(ctx context.Context, text string) (*ImportResult, error) {
	batch := extract.ExtractBatch(text)
	res := &ImportResult{Blocks: batch.Blocks, Skipped: batch.Skipped}
	res.ArchiveKey = s.archive(ctx, "report.md", "text/markdown", []byte(text))

	pending := make([]pendingRecord, 0, len(batch.Documents))
	for _, d := range batch.Documents {
		pending = append(pending, pendingRecord{index: d.Block.Index, rec: d.Record, markdown: d.Block.Text})
	}
	s.saveAll(ctx, res, pending, domain.SourceBatch)
	return res, ctx.Err()
}

func (s *importService) ImportCSV(ctx context.Context, kind domain.DocumentKind, filename string, r io.Reader) (*ImportResult, error) {
	if kind == "" {
		k, ok := tabular.KindForSheet(path.Base(filename))
		if !ok {
			return nil, fmt.Errorf("%w: cannot infer document type from %q", domain.ErrInvalidKind, filename)
		}
		kind = k
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	table, err := tabular.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
	}

	res := &ImportResult{}
	res.ArchiveKey = s.archive(ctx, filename, "text/csv", raw)
	s.importTables(ctx, res, map[domain.DocumentKind]*tabular.Table{kind: table}, domain.SourceCSV)
	return res, ctx.Err()
}

func (s *importService) ImportWorkbook(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	tables, err := tabular.ReadWorkbook(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
	}

	res := &ImportResult{}
	res.ArchiveKey = s.archive(ctx, filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", raw)
	s.importTables(ctx, res, tables, domain.SourceWorkbook)
	return res, ctx.Err()
}

// ImportSheets reads the canonical sheet of every kind concurrently. A sheet
// that cannot be read is reported as a failure and the others still load.
func (s *importService) ImportSheets(ctx context.Context) (*ImportResult, error) {
	if s.sheets == nil {
		return nil, domain.ErrSheetsDisabled
	}

	kinds := domain.AllKinds
	tables := make([]*tabular.Table, len(kinds))
	readErrs := make([]error, len(kinds))

	g, gCtx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			name := tabular.SheetName(kind)
			rows, err := s.sheets.ReadRange(gCtx, name, s.opts.SheetRange)
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				readErrs[i] = err
				return nil
			}
			tables[i] = tabular.NewTable(name, rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &ImportResult{}
	byKind := make(map[domain.DocumentKind]*tabular.Table, len(kinds))
	for i, kind := range kinds {
		if readErrs[i] != nil {
			s.log.Warn("sheet read failed", zap.String("type", string(kind)), zap.Error(readErrs[i]))
			res.Failures = append(res.Failures, ImportFailure{Index: -1, Kind: kind, Error: readErrs[i].Error()})
			continue
		}
		byKind[kind] = tables[i]
	}
	s.importTables(ctx, res, byKind, domain.SourceSheets)
	return res, ctx.Err()
}

// importTables maps rows to records in kind order and stores them. Row
// indexes continue across tables.
func (s *importService) importTables(ctx context.Context, res *ImportResult, tables map[domain.DocumentKind]*tabular.Table, source domain.DocumentSource) {
	var pending []pendingRecord
	index := 0
	for _, kind := range domain.AllKinds {
		t, ok := tables[kind]
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			res.Blocks++
			rec, ok := extract.FromRow(kind, t.Header, row)
			if !ok {
				res.Skipped++
			} else {
				pending = append(pending, pendingRecord{index: index, rec: rec})
			}
			index++
		}
	}
	s.saveAll(ctx, res, pending, source)
}

func (s *importService) saveAll(ctx context.Context, res *ImportResult, pending []pendingRecord, source domain.DocumentSource) {
	for _, p := range pending {
		if ctx.Err() != nil {
			return
		}
		doc, err := s.docs.SaveRecord(ctx, p.rec, p.markdown, source)
		if err != nil {
			s.log.Error("import save failed", zap.Int("index", p.index), zap.Error(err))
			res.Failures = append(res.Failures, ImportFailure{
				Index:      p.index,
				Kind:       p.rec.Kind(),
				ExternalID: externalID(p.rec),
				Error:      err.Error(),
			})
			continue
		}
		res.Saved++
		res.Documents = append(res.Documents, *doc)
	}
}

// archive uploads the raw import when storage is configured and returns the
// object key. Archiving is best effort.
func (s *importService) archive(ctx context.Context, filename, contentType string, raw []byte) string {
	if s.storage == nil {
		return ""
	}
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "" || name == "." || name == "/" {
		name = "upload"
	}
	now := s.now().UTC()
	key := path.Join(s.opts.Prefix, now.Format("2006/01/02"), uuid.NewString()+"-"+name)

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.opts.Bucket,
		Key:         key,
		Body:        bytes.NewReader(raw),
		ContentType: contentType,
		Size:        int64(len(raw)),
	})
	if err != nil {
		s.log.Warn("archiving import failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

func externalID(rec domain.Record) string {
	doc, err := domain.NewDocument(rec, "", "")
	if err != nil || doc.ExternalID == nil {
		return ""
	}
	return *doc.ExternalID
}
