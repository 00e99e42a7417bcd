// Package gateway streams chat completions from an OpenAI-compatible AI gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"udyami/internal/config"
	"udyami/internal/domain"
	"udyami/internal/port"
)

const (
	defaultURL   = "https://ai.gateway.lovable.dev/v1/chat/completions"
	defaultModel = "google/gemini-3-flash-preview"
)

// Client implements port.ChatGateway.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a gateway client from config.
func NewClient(cfg *config.GatewayConfig) *Client {
	endpoint := cfg.URL
	if endpoint == "" {
		endpoint = defaultURL
	}
	return newClient(cfg, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom endpoint (for testing).
func NewClientWithEndpoint(cfg *config.GatewayConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.GatewayConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 300 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// Stream posts the conversation and returns the event-stream body on 2xx.
// Non-2xx responses are mapped to *RateLimitError, ErrPaymentRequired or
// *ServiceError and the body is closed.
func (c *Client) Stream(ctx context.Context, req port.ChatRequest) (io.ReadCloser, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gateway.Stream: %w", domain.ErrGatewayUnavailable)
	}

	msgs := make([]wireMessage, 0, len(req.Messages)+1)
	msgs = append(msgs, wireMessage{Role: string(domain.RoleSystem), Content: BuildSystemPrompt(req.Context)})
	for _, m := range req.Messages {
		if m.Role == domain.RoleSystem {
			continue
		}
		msgs = append(msgs, wireMessage{Role: string(m.Role), Content: m.Content})
	}

	bodyBytes, err := json.Marshal(completionRequest{Model: c.model, Messages: msgs, Stream: true})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling ai gateway: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Body, nil
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	svcErr := &ServiceError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, NewRateLimitError(svcErr, retryAfter)
	case http.StatusPaymentRequired:
		return nil, fmt.Errorf("%w: %s", ErrPaymentRequired, svcErr.Message)
	}
	return nil, svcErr
}
