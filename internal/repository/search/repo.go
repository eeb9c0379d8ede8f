// Package search converts structured search requests into the engine's
// nested query language and flattens the nested hit structure into ranked
// per-entry results.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/siftlabs/docsift/internal/domain"
	"github.com/siftlabs/docsift/internal/es"
)

// highlightSeparator joins multiple highlight fragments of one entry.
const highlightSeparator = " ... "

// store is the consumer interface for search execution (ISP).
type store interface {
	Search(ctx context.Context, index string, body []byte, size, from int) (*es.SearchReply, error)
}

// Repo plans queries against the document index and maps engine hits back to
// domain results.
type Repo struct {
	store store
	index string
}

// New creates a search repository over the named index.
func New(s store, indexName string) *Repo {
	return &Repo{store: s, index: indexName}
}

// Execute runs the query with engine-level pagination. The returned total is
// the size of the full matching set, not the returned page.
func (r *Repo) Execute(ctx context.Context, q *domain.SearchQuery) ([]domain.SearchResult, int, error) {
	body, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, 0, fmt.Errorf("encode query: %w", err)
	}

	reply, err := r.store.Search(ctx, r.index, body, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("execute query: %w", err)
	}

	return flatten(reply), reply.Hits.Total.Value, nil
}

// hitSource is the subset of the parent document carried onto each result.
type hitSource struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
}

// innerSource is one matching nested entry.
type innerSource struct {
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
	PageNumber  int    `json:"page_number"`
}

// flatten re-emits every matching nested entry of every document hit as one
// independent result carrying the parent's shared fields. A document hit
// without qualifying inner hits degrades to a single placeholder result
// instead of being dropped.
func flatten(reply *es.SearchReply) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(reply.Hits.Hits))

	for _, hit := range reply.Hits.Hits {
		var parent hitSource
		if err := json.Unmarshal(hit.Source, &parent); err != nil {
			continue
		}

		inner, ok := hit.InnerHits["content"]
		if !ok || len(inner.Hits.Hits) == 0 {
			results = append(results, domain.SearchResult{
				DocumentID:  parent.DocumentID,
				Filename:    parent.Filename,
				ContentType: domain.ContentTypeParagraph,
				Content:     parent.Filename,
				PageNumber:  1,
				Score:       hit.Score,
			})
			continue
		}

		for _, ih := range inner.Hits.Hits {
			var entry innerSource
			if err := json.Unmarshal(ih.Source, &entry); err != nil {
				continue
			}
			results = append(results, domain.SearchResult{
				DocumentID:  parent.DocumentID,
				Filename:    parent.Filename,
				ContentType: domain.ContentType(entry.ContentType),
				Content:     entry.Content,
				PageNumber:  entry.PageNumber,
				Score:       hit.Score,
				Highlight:   joinHighlight(ih.Highlight),
			})
		}
	}

	return results
}

func joinHighlight(highlight map[string][]string) string {
	fragments := highlight["content.content"]
	if len(fragments) == 0 {
		return ""
	}
	return strings.Join(fragments, highlightSeparator)
}
