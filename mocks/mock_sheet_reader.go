package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSheetReader is a mock implementation of port.SheetReader.
type MockSheetReader struct {
	mock.Mock
}

func (m *MockSheetReader) ReadRange(ctx context.Context, sheet, cellRange string) ([][]string, error) {
	args := m.Called(ctx, sheet, cellRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}
