package search

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/siftlabs/docsift/internal/es"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, index string, body []byte, size, from int) (*es.SearchReply, error)

	lastBody []byte
	lastSize int
	lastFrom int
}

func (m *mockStore) Search(ctx context.Context, index string, body []byte, size, from int) (*es.SearchReply, error) {
	m.lastBody = body
	m.lastSize = size
	m.lastFrom = from
	if m.searchFn != nil {
		return m.searchFn(ctx, index, body, size, from)
	}
	return &es.SearchReply{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "docsift_documents"), ms
}

// decodeBody parses the captured query body for structural assertions.
func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("query body is not valid JSON: %v", err)
	}
	return decoded
}

// nestedBlock digs out the nested query block from a decoded body.
func nestedBlock(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	must := body["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	for _, clause := range must {
		if n, ok := clause.(map[string]any)["nested"]; ok {
			return n.(map[string]any)
		}
	}
	t.Fatal("query has no nested block")
	return nil
}

// replyWith builds an engine reply from raw hit JSON.
func replyWith(t *testing.T, total int, hits ...string) *es.SearchReply {
	t.Helper()
	raw := `{"hits":{"total":{"value":` + itoa(total) + `},"hits":[` + join(hits) + `]}}`
	var reply es.SearchReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		t.Fatalf("bad test reply: %v", err)
	}
	return &reply
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func join(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
