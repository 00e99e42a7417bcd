package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"udyami/internal/middleware"
	"udyami/internal/service"
)

// ChatHandler handles chat session endpoints and relays assistant replies
// as server-sent events.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateSession handles POST /api/v1/chat/sessions
// @Summary Start a chat session
// @Tags chat
// @Produce json
// @Success 201 {object} Response{data=service.ChatSessionView} "Session created"
// @Failure 429 {object} ErrorResponseBody "Too many sessions"
// @Router /chat/sessions [post]
func (h *ChatHandler) CreateSession(c *gin.Context) {
	sess, err := h.chatService.CreateSession(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, sess)
}

// GetSession handles GET /api/v1/chat/sessions/:id
// @Summary Get a chat session transcript
// @Tags chat
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=service.ChatSessionView} "Session"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /chat/sessions/{id} [get]
func (h *ChatHandler) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session ID")
		return
	}

	sess, err := h.chatService.GetSession(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// DeleteSession handles DELETE /api/v1/chat/sessions/:id
// @Summary End a chat session
// @Description Drop the session and cancel any reply still streaming.
// @Tags chat
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Session deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /chat/sessions/{id} [delete]
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session ID")
		return
	}

	if err := h.chatService.DeleteSession(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "session deleted"})
}

// SendMessage handles POST /api/v1/chat/sessions/:id/messages
// @Summary Send a chat message
// @Description Stream the assistant reply as server-sent events: "delta" for each text fragment, "document" when the finished reply contains a recognized record, then "done" with the full reply, or "error" if the stream breaks. Failures before the first fragment are returned as a JSON error. With stream=false the reply is returned as JSON once complete.
// @Tags chat
// @Accept json
// @Produce text/event-stream
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param stream query bool false "Stream the reply as server-sent events" default(true)
// @Param request body SendMessageRequest true "Message"
// @Success 200 {object} Response{data=service.ChatReply} "Assistant reply"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 402 {object} ErrorResponseBody "AI credits exhausted"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 429 {object} ErrorResponseBody "Rate limited"
// @Failure 502 {object} ErrorResponseBody "AI gateway error"
// @Router /chat/sessions/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session ID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "content is required")
		return
	}

	input := &service.SendMessageInput{
		SessionID: id,
		Content:   req.Content,
		Context:   req.Context,
	}

	if c.DefaultQuery("stream", "true") == "false" {
		reply, err := h.chatService.Send(c.Request.Context(), input)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, reply)
		return
	}

	started := false
	input.OnDelta = func(delta string) error {
		if !started {
			started = true
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
		}
		c.SSEvent("delta", gin.H{"content": delta})
		c.Writer.Flush()
		return c.Request.Context().Err()
	}

	reply, err := h.chatService.Send(c.Request.Context(), input)
	if err != nil {
		if !started {
			HandleError(c, err)
			return
		}
		status, code, msg := MapDomainError(err)
		if status >= 500 {
			middleware.GetLogger(c).Warn("chat stream failed", zap.String("session_id", id.String()), zap.Error(err))
		}
		c.SSEvent("error", APIError{Code: code, Message: msg})
		c.Writer.Flush()
		return
	}

	if reply.Kind != "" {
		c.SSEvent("document", reply)
	}
	c.SSEvent("done", reply)
	c.Writer.Flush()
}
