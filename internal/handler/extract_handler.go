package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"udyami/internal/domain"
	"udyami/internal/service"
)

// ExtractHandler exposes the markdown extractor without persisting anything.
type ExtractHandler struct {
	extractService service.ExtractService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(extractService service.ExtractService) *ExtractHandler {
	return &ExtractHandler{extractService: extractService}
}

// ExtractResult is the outcome of extracting a single block.
type ExtractResult struct {
	Matched bool                `json:"matched"`
	Kind    domain.DocumentKind `json:"type,omitempty"`
	Record  domain.Record       `json:"record,omitempty" swaggertype:"object"`
}

// BatchItem is one recognized block of a batch.
type BatchItem struct {
	Index  int                 `json:"index"`
	Kind   domain.DocumentKind `json:"type"`
	Record domain.Record       `json:"record" swaggertype:"object"`
}

// BatchExtractResult is the outcome of extracting a multi-report text.
type BatchExtractResult struct {
	Blocks    int         `json:"blocks"`
	Skipped   int         `json:"skipped"`
	Documents []BatchItem `json:"documents"`
}

// Extract handles POST /api/v1/extract
// @Summary Extract a structured record from markdown
// @Description Classify one markdown block and extract its fields. Unrecognized text returns matched=false.
// @Tags extract
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Markdown text"
// @Success 200 {object} Response{data=ExtractResult} "Extraction result"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Router /extract [post]
func (h *ExtractHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	rec, ok := h.extractService.Extract(req.Text)
	if !ok {
		RespondOK(c, ExtractResult{})
		return
	}
	RespondOK(c, ExtractResult{Matched: true, Kind: rec.Kind(), Record: rec})
}

// ExtractBatch handles POST /api/v1/extract/batch
// @Summary Extract every record from a multi-report text
// @Description Split text on separator lines and production order headings, then extract each block.
// @Tags extract
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Markdown text"
// @Success 200 {object} Response{data=BatchExtractResult} "Batch extraction result"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Router /extract/batch [post]
func (h *ExtractHandler) ExtractBatch(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	res := h.extractService.ExtractBatch(req.Text)
	out := BatchExtractResult{
		Blocks:    res.Blocks,
		Skipped:   res.Skipped,
		Documents: make([]BatchItem, 0, len(res.Documents)),
	}
	for _, d := range res.Documents {
		out.Documents = append(out.Documents, BatchItem{Index: d.Block.Index, Kind: d.Record.Kind(), Record: d.Record})
	}
	RespondOK(c, out)
}
