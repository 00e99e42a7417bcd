package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"udyami/internal/service"
)

// MockChatService is a mock implementation of service.ChatService.
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) CreateSession(ctx context.Context) (*service.ChatSessionView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatSessionView), args.Error(1)
}

func (m *MockChatService) GetSession(ctx context.Context, id uuid.UUID) (*service.ChatSessionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatSessionView), args.Error(1)
}

func (m *MockChatService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Send records the call. An optional third return value ([]string) is
// replayed through OnDelta before the reply is returned.
func (m *MockChatService) Send(ctx context.Context, input *service.SendMessageInput) (*service.ChatReply, error) {
	args := m.Called(ctx, input)
	if len(args) > 2 && input.OnDelta != nil {
		deltas, _ := args.Get(2).([]string)
		for _, d := range deltas {
			if err := input.OnDelta(d); err != nil {
				return nil, err
			}
		}
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatReply), args.Error(1)
}
