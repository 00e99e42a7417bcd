package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"udyami/internal/service"
)

// ImportHandler handles bulk import endpoints.
type ImportHandler struct {
	importService  service.ImportService
	maxUploadBytes int64
}

// NewImportHandler creates a new ImportHandler. Uploads larger than
// maxUploadBytes are rejected; zero means no limit.
func NewImportHandler(importService service.ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{importService: importService, maxUploadBytes: maxUploadBytes}
}

// ImportMarkdown handles POST /api/v1/imports/markdown
// @Summary Import a markdown batch report
// @Description Extract and store every recognized report in a text separated by '=' rules. Accepts a JSON body or a multipart "file" field.
// @Tags imports
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body ImportMarkdownRequest false "Markdown text"
// @Param file formData file false "Markdown file"
// @Success 200 {object} Response{data=service.ImportResult} "Import summary"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 413 {object} ErrorResponseBody "Upload too large"
// @Router /imports/markdown [post]
func (h *ImportHandler) ImportMarkdown(c *gin.Context) {
	var text string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		_, r, ok := h.formFile(c)
		if !ok {
			return
		}
		defer func() { _ = r.Close() }()
		raw, err := io.ReadAll(r)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
			return
		}
		text = string(raw)
	} else {
		var req ImportMarkdownRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
			return
		}
		text = req.Text
	}

	res, err := h.importService.ImportMarkdown(c.Request.Context(), text)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// ImportCSV handles POST /api/v1/imports/csv
// @Summary Import a CSV file
// @Description Map each CSV row onto a record and store it. The type defaults to the one implied by the file name, e.g. "Orders - InvoiceResult.csv".
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param type query string false "Document type" Enums(quotation, invoice, quality, production, rnd)
// @Param file formData file true "CSV file"
// @Success 200 {object} Response{data=service.ImportResult} "Import summary"
// @Failure 400 {object} ErrorResponseBody "Invalid file or type"
// @Failure 413 {object} ErrorResponseBody "Upload too large"
// @Router /imports/csv [post]
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	filename, r, ok := h.formFile(c)
	if !ok {
		return
	}
	defer func() { _ = r.Close() }()

	res, err := h.importService.ImportCSV(c.Request.Context(), kind, filename, r)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// ImportWorkbook handles POST /api/v1/imports/workbook
// @Summary Import an xlsx workbook
// @Description Import every sheet whose name matches a document type.
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} Response{data=service.ImportResult} "Import summary"
// @Failure 400 {object} ErrorResponseBody "Invalid workbook"
// @Failure 413 {object} ErrorResponseBody "Upload too large"
// @Router /imports/workbook [post]
func (h *ImportHandler) ImportWorkbook(c *gin.Context) {
	filename, r, ok := h.formFile(c)
	if !ok {
		return
	}
	defer func() { _ = r.Close() }()

	res, err := h.importService.ImportWorkbook(c.Request.Context(), filename, r)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// ImportSheets handles POST /api/v1/imports/sheets
// @Summary Import from Google Sheets
// @Description Read the canonical sheet of every type from the configured spreadsheet.
// @Tags imports
// @Produce json
// @Success 200 {object} Response{data=service.ImportResult} "Import summary"
// @Failure 503 {object} ErrorResponseBody "Sheets not configured"
// @Router /imports/sheets [post]
func (h *ImportHandler) ImportSheets(c *gin.Context) {
	res, err := h.importService.ImportSheets(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// formFile opens the "file" multipart field. ok is false after an error
// response has been written.
func (h *ImportHandler) formFile(c *gin.Context) (filename string, r io.ReadCloser, ok bool) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
			return "", nil, false
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return "", nil, false
	}
	return header.Filename, file, true
}
