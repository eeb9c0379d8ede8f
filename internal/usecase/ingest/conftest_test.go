package ingest

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/domain"
)

type mockNormalizer struct {
	fn func(raw map[string]any, sourcePath string) (domain.Document, error)
}

func (m *mockNormalizer) Normalize(raw map[string]any, sourcePath string) (domain.Document, error) {
	return m.fn(raw, sourcePath)
}

type mockIndexer struct {
	submitted []string
	deleted   []string
	submitOK  bool
	deleteOK  bool
}

func (m *mockIndexer) Submit(_ context.Context, doc *domain.Document) bool {
	m.submitted = append(m.submitted, doc.DocumentID)
	return m.submitOK
}

func (m *mockIndexer) Delete(_ context.Context, documentID string) bool {
	m.deleted = append(m.deleted, documentID)
	return m.deleteOK
}

func newService(t *testing.T, n Normalizer, idx Indexer) *Service {
	t.Helper()
	return New(n, idx, zap.NewNop())
}
