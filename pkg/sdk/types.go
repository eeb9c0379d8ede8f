package docsift

import "time"

// Registration is the payload for creating an account.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
}

// User is an account as returned by the server. Password hashes never
// appear on the wire.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// SearchQuery describes one full-text search. ContentTypes values are the
// server's canonical names: paragraph, image, table.
type SearchQuery struct {
	Query        string   `json:"query"`
	ContentTypes []string `json:"content_types,omitempty"`
	PageNumbers  []int    `json:"page_numbers,omitempty"`
	DocumentIDs  []string `json:"document_ids,omitempty"`
	Limit        int      `json:"limit"`
	Offset       int      `json:"offset"`
}

// SearchResult is one matched content entry.
type SearchResult struct {
	DocumentID  string  `json:"document_id"`
	Filename    string  `json:"filename"`
	ContentType string  `json:"content_type"`
	Content     string  `json:"content"`
	PageNumber  int     `json:"page_number"`
	Score       float64 `json:"score"`
	Highlight   string  `json:"highlight,omitempty"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Results     []SearchResult `json:"results"`
	TotalHits   int            `json:"total_hits"`
	QueryTimeMS float64        `json:"query_time_ms"`
	Page        int            `json:"page"`
	PerPage     int            `json:"per_page"`
}

// RawDocument is one batch ingest entry: the extracted payload plus the
// path it came from.
type RawDocument struct {
	Payload    map[string]any `json:"payload"`
	SourcePath string         `json:"source_path"`
}

// BatchEntry reports the outcome for one document of a batch.
type BatchEntry struct {
	SourcePath string `json:"source_path"`
	DocumentID string `json:"document_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchResult summarizes a batch ingest.
type BatchResult struct {
	Successful []BatchEntry `json:"successful"`
	Failed     []BatchEntry `json:"failed"`
	Total      int          `json:"total"`
}

// HealthReport is the server's health summary. Status is "ok", "degraded",
// or "error".
type HealthReport struct {
	Status         string `json:"status"`
	ClusterName    string `json:"cluster_name,omitempty"`
	ClusterStatus  string `json:"cluster_status,omitempty"`
	Nodes          int    `json:"nodes,omitempty"`
	Index          string `json:"index"`
	DocumentCount  int64  `json:"document_count"`
	IndexSizeBytes int64  `json:"index_size_bytes"`
	Error          string `json:"error,omitempty"`
}
