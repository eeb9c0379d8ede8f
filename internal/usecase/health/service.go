// Package health aggregates search engine health into a single report.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the engine and index are reachable.
	Healthy Status = "ok"
	// Degraded indicates the cluster responds but index stats are missing.
	Degraded Status = "degraded"
	// Unhealthy indicates the cluster is unreachable.
	Unhealthy Status = "error"
)

// Report describes engine and index state at check time.
type Report struct {
	Status         Status `json:"status"`
	ClusterName    string `json:"cluster_name,omitempty"`
	ClusterStatus  string `json:"cluster_status,omitempty"`
	Nodes          int    `json:"nodes,omitempty"`
	Index          string `json:"index"`
	DocumentCount  int64  `json:"document_count"`
	IndexSizeBytes int64  `json:"index_size_bytes"`
	Error          string `json:"error,omitempty"`
}

// Service coordinates health checks against the search engine.
type Service struct {
	engine EngineReporter
	index  string
}

func New(engine EngineReporter, index string) *Service {
	return &Service{engine: engine, index: index}
}

// Check queries cluster health and index stats. A cluster failure yields an
// Unhealthy report; a stats failure on a healthy cluster yields Degraded.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{Index: s.index}

	cluster, err := s.engine.ClusterHealth(ctx)
	if err != nil {
		report.Status = Unhealthy
		report.Error = err.Error()
		return report
	}
	report.ClusterName = cluster.ClusterName
	report.ClusterStatus = cluster.Status
	report.Nodes = cluster.NumberOfNodes

	stats, err := s.engine.IndexStats(ctx, s.index)
	if err != nil {
		report.Status = Degraded
		report.Error = err.Error()
		return report
	}
	report.DocumentCount = stats.DocumentCount
	report.IndexSizeBytes = stats.SizeInBytes

	report.Status = Healthy
	if cluster.Status == "red" {
		report.Status = Degraded
	}
	return report
}
