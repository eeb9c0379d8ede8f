package health

import (
	"context"

	"github.com/siftlabs/docsift/internal/es"
)

// EngineReporter exposes cluster and index state from the search engine.
type EngineReporter interface {
	ClusterHealth(ctx context.Context) (*es.ClusterHealth, error)
	IndexStats(ctx context.Context, index string) (*es.IndexStats, error)
}
