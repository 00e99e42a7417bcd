package handler_test

import (
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"udyami/internal/domain"
	"udyami/internal/handler"
	"udyami/internal/service"
	"udyami/mocks"
)

func newDocumentHandler() (*handler.DocumentHandler, *mocks.MockDocumentService) {
	mockSvc := new(mocks.MockDocumentService)
	return handler.NewDocumentHandler(mockSvc), mockSvc
}

func TestDocumentHandler_Save(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	doc := &domain.Document{ID: uuid.New(), Kind: domain.KindInvoice, Source: domain.SourceAPI}
	mockSvc.On("Save", mock.Anything, mock.MatchedBy(func(in *service.SaveDocumentInput) bool {
		return in.Kind == "invoice" && string(in.Data) == `{"invoiceNumber":"INV-1"}` && in.Markdown == "# INVOICE"
	})).Return(doc, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/documents", map[string]interface{}{
		"type":     "invoice",
		"data":     map[string]string{"invoiceNumber": "INV-1"},
		"markdown": "# INVOICE",
	})
	h.Save(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got domain.Document
	decodeData(t, w, &got)
	assert.Equal(t, doc.ID, got.ID)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_Save_MissingFields(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/documents", map[string]string{"markdown": "x"})
	h.Save(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDocumentHandler_Save_InvalidKind(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("Save", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidKind)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/documents", map[string]interface{}{
		"type": "memo", "data": map[string]string{},
	})
	h.Save(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_TYPE", decode(t, w).Error.Code)
}

func TestDocumentHandler_List_Filters(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	docs := []domain.Document{{ID: uuid.New(), Kind: domain.KindQuality}}
	mockSvc.On("List", mock.Anything, mock.MatchedBy(func(f domain.DocumentFilter) bool {
		return f.Kind == domain.KindQuality &&
			f.Search == "B-2024" &&
			f.Status == "REJECT" &&
			f.DateFrom != nil && f.DateFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			f.DateTo != nil && f.DateTo.After(time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC))
	}), 10, 5).Return(docs, 11, nil)

	c, w := newJSONContext(t, http.MethodGet,
		"/api/v1/documents?type=Quality&search=B-2024&status=REJECT&from=2024-03-01&to=2024-03-31&offset=10&limit=5", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, handler.PagMeta{Total: 11, Offset: 10, Limit: 5}, *resp.Meta)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_List_BadInput(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/documents?type=memo", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newJSONContext(t, http.MethodGet, "/api/v1/documents?from=yesterday", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE", decode(t, w).Error.Code)

	mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentHandler_GetByID(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(&domain.Document{ID: id}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/documents/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_GetByID_Errors(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/documents/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.GetByID(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrDocumentNotFound)
	c, w = newJSONContext(t, http.MethodGet, "/api/v1/documents/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.GetByID(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", decode(t, w).Error.Code)
}

func TestDocumentHandler_Delete(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(nil)

	c, w := newJSONContext(t, http.MethodDelete, "/api/v1/documents/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_ListAudit(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	entries := []domain.AuditLogEntry{{ID: uuid.New(), Action: domain.AuditActionCreate, Entity: "documents", EntityID: id}}
	mockSvc.On("ListAudit", mock.Anything, id, 0, 20).Return(entries, 1, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/documents/"+id.String()+"/audit", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.ListAudit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.AuditLogEntry
	decodeData(t, w, &got)
	require.Len(t, got, 1)
	assert.Equal(t, domain.AuditActionCreate, got[0].Action)
}

func TestDocumentHandler_ExportCSV(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("Export", mock.Anything, domain.KindInvoice, service.ExportCSV, mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = io.WriteString(args.Get(3).(io.Writer), "Invoice Number\nINV-1\n")
		}).Return(nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/documents/export?type=invoice", nil)
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Orders - InvoiceResult.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Invoice Number\nINV-1\n", w.Body.String())
}

func TestDocumentHandler_ExportXLSX_AllKinds(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("Export", mock.Anything, domain.DocumentKind(""), service.ExportXLSX, mock.Anything).Return(nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/documents/export?format=XLSX", nil)
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="udyami-export.xlsx"`, w.Header().Get("Content-Disposition"))
}

func TestDocumentHandler_Export_Error(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("Export", mock.Anything, domain.KindRnD, service.ExportFormat("pdf"), mock.Anything).
		Return(domain.ErrUnsupportedFormat)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/documents/export?type=rnd&format=pdf", nil)
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}

func TestDocumentHandler_ServiceFailureIs500(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("List", mock.Anything, mock.Anything, 0, 20).Return(nil, 0, errors.New("db down"))

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/documents", nil)
	h.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode(t, w).Error.Code)
}
