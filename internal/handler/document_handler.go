package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"udyami/internal/domain"
	"udyami/internal/service"
	"udyami/internal/tabular"
)

// DocumentHandler handles stored document endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Save handles POST /api/v1/documents
// @Summary Save a structured document
// @Description Validate and store one record of the given type together with its source markdown.
// @Tags documents
// @Accept json
// @Produce json
// @Param request body SaveDocumentRequest true "Document to save"
// @Success 201 {object} Response{data=domain.Document} "Document saved"
// @Failure 400 {object} ErrorResponseBody "Invalid type or data"
// @Router /documents [post]
func (h *DocumentHandler) Save(c *gin.Context) {
	var req SaveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "type and data are required")
		return
	}

	doc, err := h.documentService.Save(c.Request.Context(), &service.SaveDocumentInput{
		Kind:     req.Type,
		Data:     req.Data,
		Markdown: req.Markdown,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Description List stored documents, newest first, with optional filters.
// @Tags documents
// @Produce json
// @Param type query string false "Document type" Enums(quotation, invoice, quality, production, rnd)
// @Param search query string false "Substring of external id or customer"
// @Param status query string false "Status (win probability, payment risk, decision or readiness)"
// @Param customer query string false "Customer name"
// @Param from query string false "Created on or after (YYYY-MM-DD or RFC3339)"
// @Param to query string false "Created on or before (YYYY-MM-DD or RFC3339)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Document,meta=PagMeta} "Documents"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	filter := domain.DocumentFilter{
		Kind:     kind,
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.TrimSpace(c.Query("status")),
		Customer: strings.TrimSpace(c.Query("customer")),
	}

	var err error
	if filter.DateFrom, err = parseDate(c.Query("from"), false); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "from must be YYYY-MM-DD or RFC3339")
		return
	}
	if filter.DateTo, err = parseDate(c.Query("to"), true); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "to must be YYYY-MM-DD or RFC3339")
		return
	}

	offset, limit := parsePagination(c)
	docs, total, err := h.documentService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// parseDate accepts a calendar date or an RFC3339 timestamp. A bare date used
// as an upper bound covers the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get document by ID
// @Description Get a stored document including its extracted data and source markdown.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.Document} "Document details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Document deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), docID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: "document deleted"})
}

// ListAudit handles GET /api/v1/documents/:id/audit
// @Summary Get document audit trail
// @Description Paginated create, update and delete history for a document.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.AuditLogEntry,meta=PagMeta} "Audit entries"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /documents/{id}/audit [get]
func (h *DocumentHandler) ListAudit(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	offset, limit := parsePagination(c)
	entries, total, err := h.documentService.ListAudit(c.Request.Context(), docID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/documents/export
// @Summary Export documents
// @Description Download every stored document of a type as CSV, or one or all types as an xlsx workbook.
// @Tags documents
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param type query string false "Document type (required for csv)" Enums(quotation, invoice, quality, production, rnd)
// @Param format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Invalid type or format"
// @Router /documents/export [get]
func (h *DocumentHandler) Export(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportCSV))))

	var buf bytes.Buffer
	if err := h.documentService.Export(c.Request.Context(), kind, format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	var filename, contentType string
	switch format {
	case service.ExportXLSX:
		filename = "udyami-export.xlsx"
		if kind != "" {
			filename = tabular.SheetName(kind) + ".xlsx"
		}
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		filename = tabular.SheetName(kind) + ".csv"
		contentType = "text/csv; charset=utf-8"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
