package search

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/domain"
)

type mockRepo struct {
	lastQuery *domain.SearchQuery
	results   []domain.SearchResult
	total     int
	err       error
}

func (m *mockRepo) Execute(_ context.Context, q *domain.SearchQuery) ([]domain.SearchResult, int, error) {
	m.lastQuery = q
	return m.results, m.total, m.err
}

func newService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc := New(repo, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}
