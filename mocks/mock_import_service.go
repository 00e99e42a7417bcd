package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"udyami/internal/domain"
	"udyami/internal/service"
)

// MockImportService is a mock implementation of service.ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportMarkdown(ctx context.Context, text string) (*service.ImportResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *MockImportService) ImportCSV(ctx context.Context, kind domain.DocumentKind, filename string, r io.Reader) (*service.ImportResult, error) {
	args := m.Called(ctx, kind, filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *MockImportService) ImportWorkbook(ctx context.Context, filename string, r io.Reader) (*service.ImportResult, error) {
	args := m.Called(ctx, filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *MockImportService) ImportSheets(ctx context.Context) (*service.ImportResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}
