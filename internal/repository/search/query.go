package search

import "github.com/siftlabs/docsift/internal/domain"

// maxInnerHits caps how many matching entries one document hit can emit.
const maxInnerHits = 100

// buildQuery converts a SearchQuery into the engine's query representation.
//
// The free-text match and the content_type/page_number filters live inside a
// single nested block scoped to the content collection, so they must all
// hold on the same entry. Only the document_id filter applies at the top
// level. The text term matches the entry text (weighted double) and the
// parent filename, with fuzzy matching for near-miss spellings.
func buildQuery(q *domain.SearchQuery) map[string]any {
	nestedMust := []any{
		map[string]any{
			"multi_match": map[string]any{
				"query":     q.Query,
				"fields":    []string{"content.content^2", "filename"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}

	if len(q.ContentTypes) > 0 {
		types := make([]string, 0, len(q.ContentTypes))
		for _, ct := range q.ContentTypes {
			types = append(types, string(ct))
		}
		nestedMust = append(nestedMust, map[string]any{
			"terms": map[string]any{"content.content_type": types},
		})
	}

	if len(q.PageNumbers) > 0 {
		nestedMust = append(nestedMust, map[string]any{
			"terms": map[string]any{"content.page_number": q.PageNumbers},
		})
	}

	nested := map[string]any{
		"nested": map[string]any{
			"path": "content",
			"query": map[string]any{
				"bool": map[string]any{"must": nestedMust},
			},
			"inner_hits": map[string]any{
				"size": maxInnerHits,
				"highlight": map[string]any{
					"fields": map[string]any{
						"content.content": map[string]any{
							"pre_tags":            []string{"<mark>"},
							"post_tags":           []string{"</mark>"},
							"fragment_size":       150,
							"number_of_fragments": 3,
						},
					},
				},
			},
		},
	}

	must := []any{nested}
	if len(q.DocumentIDs) > 0 {
		must = append(must, map[string]any{
			"terms": map[string]any{"document_id": q.DocumentIDs},
		})
	}

	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
		"sort": []any{
			map[string]any{"_score": map[string]any{"order": "desc"}},
			map[string]any{"upload_timestamp": map[string]any{"order": "desc"}},
		},
	}
}
