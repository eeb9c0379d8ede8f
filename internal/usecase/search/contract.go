package search

import (
	"context"

	"github.com/siftlabs/docsift/internal/domain"
)

// Repository runs a planned query against the search engine and returns the
// flattened results plus the total hit count.
type Repository interface {
	Execute(ctx context.Context, q *domain.SearchQuery) ([]domain.SearchResult, int, error)
}
