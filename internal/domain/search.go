package domain

// Search parameter limits.
const (
	MaxQueryLength = 500
	DefaultLimit   = 10
	MaxLimit       = 100
)

// SearchQuery is a structured search request. Query is free text; the
// optional slices are set-membership filters ANDed with the text match.
type SearchQuery struct {
	Query        string        `json:"query"`
	ContentTypes []ContentType `json:"content_types,omitempty"`
	PageNumbers  []int         `json:"page_numbers,omitempty"`
	DocumentIDs  []string      `json:"document_ids,omitempty"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
}

// Clamp bounds Limit to [1, MaxLimit] and Offset to >= 0. A zero Limit
// becomes DefaultLimit.
func (q *SearchQuery) Clamp() {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// SearchResult is one ranked content match. A result corresponds to a single
// content item of a document, not to the whole document.
type SearchResult struct {
	DocumentID  string      `json:"document_id"`
	Filename    string      `json:"filename"`
	ContentType ContentType `json:"content_type"`
	Content     string      `json:"content"`
	PageNumber  int         `json:"page_number"`
	Score       float64     `json:"score"`
	Highlight   string      `json:"highlight,omitempty"`
}

// SearchResponse is a ranked, paginated page of results.
type SearchResponse struct {
	Results     []SearchResult `json:"results"`
	TotalHits   int            `json:"total_hits"`
	QueryTimeMS float64        `json:"query_time_ms"`
	Page        int            `json:"page"`
	PerPage     int            `json:"per_page"`
}
