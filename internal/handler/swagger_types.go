package handler

import (
	"encoding/json"

	"udyami/internal/port"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// ExtractRequest carries markdown text to extract from.
type ExtractRequest struct {
	Text string `json:"text" binding:"required" example:"# 📋 QUOTATION\n**Quote ID:** QT-2024-0142\n**Customer:** Shakti Polymers\n**GRAND TOTAL:** ₹1,094,450.00"`
}

// SaveDocumentRequest is the save-document contract.
type SaveDocumentRequest struct {
	Type     string          `json:"type" binding:"required" example:"invoice"`
	Data     json.RawMessage `json:"data" binding:"required" swaggertype:"object"`
	Markdown string          `json:"markdown" example:"# INVOICE\n**Invoice Number:** INV-2024-0311"`
}

// ImportMarkdownRequest carries a multi-report markdown text.
type ImportMarkdownRequest struct {
	Text string `json:"text" binding:"required"`
}

// SendMessageRequest is one user chat message with optional dashboard context.
type SendMessageRequest struct {
	Content string            `json:"content" binding:"required" example:"Prepare a quotation for 5,000 kg of FR-PP compound for Shakti Polymers"`
	Context *port.ChatContext `json:"contextData"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
