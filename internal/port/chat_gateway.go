package port

import (
	"context"
	"io"

	"udyami/internal/domain"
)

// ChatContext carries dashboard counts appended to the assistant's system prompt.
type ChatContext struct {
	QuotationsCount int `json:"quotationsCount"`
	InvoicesCount   int `json:"invoicesCount"`
	QualityCount    int `json:"qualityCount"`
	ProductionCount int `json:"productionCount"`
	RnDCount        int `json:"rndCount"`
}

// ChatRequest is one completion request: prior turns plus the new user message.
type ChatRequest struct {
	Messages []domain.ChatMessage
	Context  *ChatContext
}

// ChatGateway opens a streaming chat completion. The returned body carries
// "data: <json>" lines and must be closed by the caller.
type ChatGateway interface {
	Stream(ctx context.Context, req ChatRequest) (io.ReadCloser, error)
}
