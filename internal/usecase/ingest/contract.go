package ingest

import (
	"context"

	"github.com/siftlabs/docsift/internal/domain"
)

// Normalizer converts raw payloads into canonical Documents.
type Normalizer interface {
	Normalize(raw map[string]any, sourcePath string) (domain.Document, error)
}

// Indexer persists documents into the search engine. Failures are reported
// as false, never as errors.
type Indexer interface {
	Submit(ctx context.Context, doc *domain.Document) bool
	Delete(ctx context.Context, documentID string) bool
}
