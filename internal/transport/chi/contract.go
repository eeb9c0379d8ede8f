package chi

import (
	"context"

	"github.com/siftlabs/docsift/internal/domain"
	healthuc "github.com/siftlabs/docsift/internal/usecase/health"
	"github.com/siftlabs/docsift/internal/usecase/ingest"
)

// AuthService manages accounts and bearer tokens.
type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}

// IngestService runs the normalize-then-index pipeline.
type IngestService interface {
	Ingest(ctx context.Context, raw map[string]any, sourcePath string) (*domain.Document, error)
	IngestBatch(ctx context.Context, docs []ingest.RawDocument) ingest.BatchResult
	Delete(ctx context.Context, documentID string) bool
}

// SearchService executes sanitized full-text queries.
type SearchService interface {
	Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResponse, error)
}

// HealthService aggregates engine health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
