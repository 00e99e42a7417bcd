package service

import (
	"udyami/internal/domain"
	"udyami/internal/extract"
)

// ExtractService exposes the extractor to the API without persisting anything.
type ExtractService interface {
	Extract(text string) (domain.Record, bool)
	ExtractBatch(text string) extract.BatchResult
}

type extractService struct{}

// NewExtractService creates a new ExtractService implementation.
func NewExtractService() ExtractService {
	return extractService{}
}

func (extractService) Extract(text string) (domain.Record, bool) {
	return extract.Extract(text)
}

func (extractService) ExtractBatch(text string) extract.BatchResult {
	return extract.ExtractBatch(text)
}
