package docsift

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestLogin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" {
			t.Errorf("username = %q", body["username"])
		}
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok-1", TokenType: "bearer"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if c.token != "tok-1" {
		t.Errorf("token = %q", c.token)
	}
}

func TestSearch_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-2" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Results:   []SearchResult{{DocumentID: "d1", Content: "alpha"}},
			TotalHits: 1,
			Page:      1,
			PerPage:   10,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-2"))
	resp, err := c.Search(context.Background(), SearchQuery{Query: "alpha"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.TotalHits != 1 || len(resp.Results) != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestSearch_WireFormat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(SearchResponse{Page: 1, PerPage: 5})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	_, err := c.Search(context.Background(), SearchQuery{
		Query:        "alpha",
		ContentTypes: []string{"table", "image"},
		PageNumbers:  []int{2},
		Limit:        5,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := body["query"]; got != "alpha" {
		t.Errorf("query = %v", got)
	}
	if got := body["content_types"]; !reflect.DeepEqual(got, []any{"table", "image"}) {
		t.Errorf("content_types = %v", got)
	}
	if got := body["page_numbers"]; !reflect.DeepEqual(got, []any{2.0}) {
		t.Errorf("page_numbers = %v", got)
	}
}

func TestDeleteDocument_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "document_not_found", "message": "document not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	if err := c.DeleteDocument(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRegister_ValidationErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":    "validation_failed",
			"message": "validation failed",
			"details": []string{"password must be at least 8 characters"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Register(context.Background(), Registration{Username: "alice"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "validation_failed" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if len(apiErr.Details) != 1 {
		t.Errorf("details = %v", apiErr.Details)
	}
}

func TestIngestDocument_QueryEscapesSourcePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("source_path"); got != "/in/q3 report.pdf" {
			t.Errorf("source_path = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(IngestResult{DocumentID: "d9"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	res, err := c.IngestDocument(context.Background(), map[string]any{"filename": "q3 report.pdf"}, "/in/q3 report.pdf")
	if err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if res.DocumentID != "d9" {
		t.Errorf("document id = %q", res.DocumentID)
	}
}
