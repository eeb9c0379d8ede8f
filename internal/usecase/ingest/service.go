// Package ingest runs the normalize-then-index pipeline for incoming
// document payloads.
package ingest

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/domain"
)

// ErrSubmitFailed is returned when a normalized document could not be
// written to the search engine.
var ErrSubmitFailed = errors.New("document could not be indexed")

// RawDocument pairs an extracted payload with the path it came from.
type RawDocument struct {
	Payload    map[string]any `json:"payload"`
	SourcePath string         `json:"source_path"`
}

// BatchEntry records the outcome for one document in a batch.
type BatchEntry struct {
	SourcePath string `json:"source_path"`
	DocumentID string `json:"document_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchResult summarizes a batch ingest run.
type BatchResult struct {
	Successful []BatchEntry `json:"successful"`
	Failed     []BatchEntry `json:"failed"`
	Total      int          `json:"total"`
}

// Service normalizes raw payloads and submits them for indexing.
type Service struct {
	normalizer Normalizer
	indexer    Indexer
	logger     *zap.Logger
}

func New(normalizer Normalizer, indexer Indexer, logger *zap.Logger) *Service {
	return &Service{normalizer: normalizer, indexer: indexer, logger: logger}
}

// Ingest validates and indexes a single payload and returns the stored
// document. Validation failures surface as *domain.ValidationError.
func (s *Service) Ingest(ctx context.Context, raw map[string]any, sourcePath string) (*domain.Document, error) {
	doc, err := s.normalizer.Normalize(raw, sourcePath)
	if err != nil {
		return nil, err
	}
	if !s.indexer.Submit(ctx, &doc) {
		s.logger.Error("document submit failed",
			zap.String("document_id", doc.DocumentID),
			zap.String("filename", doc.Filename))
		return nil, ErrSubmitFailed
	}
	s.logger.Info("document ingested",
		zap.String("document_id", doc.DocumentID),
		zap.String("filename", doc.Filename),
		zap.Int("items", len(doc.Content)))
	return &doc, nil
}

// IngestBatch processes documents independently: one bad payload never
// aborts the rest of the batch.
func (s *Service) IngestBatch(ctx context.Context, docs []RawDocument) BatchResult {
	result := BatchResult{
		Successful: make([]BatchEntry, 0, len(docs)),
		Failed:     make([]BatchEntry, 0),
		Total:      len(docs),
	}
	for _, raw := range docs {
		doc, err := s.Ingest(ctx, raw.Payload, raw.SourcePath)
		if err != nil {
			result.Failed = append(result.Failed, BatchEntry{
				SourcePath: raw.SourcePath,
				Error:      err.Error(),
			})
			continue
		}
		result.Successful = append(result.Successful, BatchEntry{
			SourcePath: raw.SourcePath,
			DocumentID: doc.DocumentID,
		})
	}
	return result
}

// Delete removes a document from the index. Missing documents report false.
func (s *Service) Delete(ctx context.Context, documentID string) bool {
	return s.indexer.Delete(ctx, documentID)
}
