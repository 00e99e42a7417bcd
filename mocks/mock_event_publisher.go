package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"udyami/internal/eventstream"
)

// MockEventPublisher is a mock implementation of eventstream.Publisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishDocumentSaved(ctx context.Context, event *eventstream.DocumentSavedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
