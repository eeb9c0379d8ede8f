package index

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	createIndexFn func(ctx context.Context, name string, mapping []byte) error
	indexFn       func(ctx context.Context, index, id string, body []byte) (string, error)
	deleteFn      func(ctx context.Context, index, id string) (string, error)

	created map[string][]byte // id -> last indexed body
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, name string, mapping []byte) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, name, mapping)
	}
	return nil
}

func (m *mockStore) Index(ctx context.Context, index, id string, body []byte) (string, error) {
	if m.created == nil {
		m.created = make(map[string][]byte)
	}
	result := "created"
	if _, ok := m.created[id]; ok {
		result = "updated"
	}
	m.created[id] = body
	if m.indexFn != nil {
		return m.indexFn(ctx, index, id, body)
	}
	return result, nil
}

func (m *mockStore) Delete(ctx context.Context, index, id string) (string, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, index, id)
	}
	return "deleted", nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "docsift_documents", zap.NewNop()), ms
}

func testDocument() *domain.Document {
	return &domain.Document{
		DocumentID:      "doc-1",
		Filename:        "report.pdf",
		FilePath:        "/data/report.pdf",
		TotalPages:      2,
		FileSize:        2048,
		Checksum:        "abc123",
		UploadTimestamp: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Content: []domain.ContentItem{
			{
				ContentType: domain.ContentTypeParagraph,
				Content:     "alpha beta",
				PageNumber:  1,
				Metadata:    map[string]any{"font_size": 12},
			},
			{
				ContentType: domain.ContentTypeTable,
				Content:     "gamma",
				PageNumber:  2,
			},
		},
	}
}
