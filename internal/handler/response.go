package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"udyami/internal/domain"
	"udyami/internal/gateway"
	"udyami/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain and gateway errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var rateLimited *gateway.RateLimitError
	var upstream *gateway.ServiceError

	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "chat session not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrInvalidKind):
		return http.StatusBadRequest, "INVALID_TYPE", "type must be one of quotation, invoice, quality, production, rnd"
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest, "INVALID_DOCUMENT", err.Error()
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", err.Error()
	case errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest, "EMPTY_MESSAGE", "message content is required"
	case errors.Is(err, domain.ErrMessageTooLarge):
		return http.StatusRequestEntityTooLarge, "MESSAGE_TOO_LARGE", "message exceeds maximum allowed size"
	case errors.Is(err, domain.ErrSessionLimit):
		return http.StatusTooManyRequests, "SESSION_LIMIT", "too many open chat sessions"
	case errors.Is(err, domain.ErrStorageDisabled):
		return http.StatusServiceUnavailable, "STORAGE_DISABLED", "object storage is not configured"
	case errors.Is(err, domain.ErrSheetsDisabled):
		return http.StatusServiceUnavailable, "SHEETS_DISABLED", "google sheets is not configured"
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusServiceUnavailable, "AI_UNAVAILABLE", "AI gateway is not configured"
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED",
			fmt.Sprintf("rate limits exceeded, please try again in %d seconds", int(rateLimited.RetryAfter.Seconds()))
	case errors.Is(err, gateway.ErrPaymentRequired):
		return http.StatusPaymentRequired, "PAYMENT_REQUIRED", "payment required, please add funds to the AI workspace"
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "AI_GATEWAY_ERROR", "AI gateway error"
	case errors.Is(err, domain.ErrNoReply):
		return http.StatusBadGateway, "NO_REPLY", "assistant produced no reply"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		middleware.GetLogger(c).Error("request failed", zap.String("code", code), zap.Error(err))
	}
	RespondError(c, status, code, msg)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// parseKind reads an optional kind from the "type" query parameter. ok is
// false after an error response has been written.
func parseKind(c *gin.Context) (kind domain.DocumentKind, ok bool) {
	raw := c.Query("type")
	if raw == "" {
		return "", true
	}
	kind, valid := domain.ParseDocumentKind(raw)
	if !valid {
		HandleError(c, domain.ErrInvalidKind)
		return "", false
	}
	return kind, true
}
