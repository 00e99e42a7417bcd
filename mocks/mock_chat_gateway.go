package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"udyami/internal/port"
)

// MockChatGateway is a mock implementation of port.ChatGateway.
type MockChatGateway struct {
	mock.Mock
}

func (m *MockChatGateway) Stream(ctx context.Context, req port.ChatRequest) (io.ReadCloser, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
