package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyami/internal/domain"
	"udyami/internal/handler"
	"udyami/internal/service"
)

const quotationText = "# QUOTATION\n**Quote ID:** QT-9\n**Customer:** Acme\n**GRAND TOTAL:** ₹1,500.00\n"

const productionText = "# Production Schedule\n\n### ✅ Order ORD-1\n- **Decision:** PROCEED\n\n### ⚠️ Order ORD-2\n- **Decision:** DELAY\n"

func TestExtractHandler_Extract(t *testing.T) {
	h := handler.NewExtractHandler(service.NewExtractService())

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/extract", map[string]string{"text": quotationText})
	h.Extract(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Matched bool                `json:"matched"`
		Kind    domain.DocumentKind `json:"type"`
		Record  domain.Quotation    `json:"record"`
	}
	decodeData(t, w, &got)
	assert.True(t, got.Matched)
	assert.Equal(t, domain.KindQuotation, got.Kind)
	assert.Equal(t, "QT-9", got.Record.QuoteID)
	assert.InDelta(t, 1500.0, got.Record.GrandTotal, 1e-9)
}

func TestExtractHandler_Extract_NoMatch(t *testing.T) {
	h := handler.NewExtractHandler(service.NewExtractService())

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/extract", map[string]string{"text": "hello there"})
	h.Extract(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got handler.ExtractResult
	decodeData(t, w, &got)
	assert.False(t, got.Matched)
	assert.Empty(t, got.Kind)
}

func TestExtractHandler_Extract_MissingText(t *testing.T) {
	h := handler.NewExtractHandler(service.NewExtractService())

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/extract", map[string]string{})
	h.Extract(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractHandler_ExtractBatch(t *testing.T) {
	h := handler.NewExtractHandler(service.NewExtractService())

	text := quotationText + strings.Repeat("=", 40) + "\nsummary only\n" + strings.Repeat("=", 40) + "\n" + productionText
	c, w := newJSONContext(t, http.MethodPost, "/api/v1/extract/batch", map[string]string{"text": text})
	h.ExtractBatch(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Blocks    int `json:"blocks"`
		Skipped   int `json:"skipped"`
		Documents []struct {
			Index int                 `json:"index"`
			Kind  domain.DocumentKind `json:"type"`
		} `json:"documents"`
	}
	decodeData(t, w, &got)
	assert.Equal(t, 4, got.Blocks)
	assert.Equal(t, 1, got.Skipped)
	require.Len(t, got.Documents, 3)
	assert.Equal(t, domain.KindQuotation, got.Documents[0].Kind)
	assert.Equal(t, domain.KindProduction, got.Documents[1].Kind)
	assert.Equal(t, 2, got.Documents[1].Index)
	assert.Equal(t, 3, got.Documents[2].Index)
}
