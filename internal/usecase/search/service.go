// Package search validates queries, delegates execution to the engine
// repository, and shapes the paginated response.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/domain"
)

// Service executes sanitized search queries. Engine failures degrade to an
// empty response rather than an error: a search outage must not take the
// read path down with it.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Search runs q after sanitizing its text and clamping pagination. The only
// error it returns is domain.ErrInvalidQuery for queries that are empty
// after sanitization.
func (s *Service) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResponse, error) {
	q.Query = SanitizeQuery(q.Query)
	if q.Query == "" {
		return domain.SearchResponse{}, domain.ErrInvalidQuery
	}
	q.Clamp()

	start := s.now()
	results, total, err := s.repo.Execute(ctx, &q)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.logger.Error("search failed, returning empty result set",
			zap.String("query", q.Query),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return emptyResponse(q.Limit), nil
	}

	return domain.SearchResponse{
		Results:     results,
		TotalHits:   total,
		QueryTimeMS: float64(elapsed.Microseconds()) / 1000.0,
		Page:        q.Offset/q.Limit + 1,
		PerPage:     q.Limit,
	}, nil
}

func emptyResponse(perPage int) domain.SearchResponse {
	return domain.SearchResponse{
		Results:   []domain.SearchResult{},
		TotalHits: 0,
		Page:      1,
		PerPage:   perPage,
	}
}
