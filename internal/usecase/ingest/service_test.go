package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/siftlabs/docsift/internal/domain"
)

func TestIngest_Success(t *testing.T) {
	normalizer := &mockNormalizer{
		fn: func(raw map[string]any, sourcePath string) (domain.Document, error) {
			return domain.Document{DocumentID: "doc-1", Filename: "report.pdf", FilePath: sourcePath}, nil
		},
	}
	indexer := &mockIndexer{submitOK: true}
	svc := newService(t, normalizer, indexer)

	doc, err := svc.Ingest(context.Background(), map[string]any{"filename": "report.pdf"}, "/in/report.pdf")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.DocumentID != "doc-1" {
		t.Errorf("document id = %q, want doc-1", doc.DocumentID)
	}
	if len(indexer.submitted) != 1 || indexer.submitted[0] != "doc-1" {
		t.Errorf("submitted = %v, want [doc-1]", indexer.submitted)
	}
}

func TestIngest_ValidationErrorSkipsIndexer(t *testing.T) {
	wantErr := &domain.ValidationError{Violations: []string{"filename is required"}}
	normalizer := &mockNormalizer{
		fn: func(map[string]any, string) (domain.Document, error) { return domain.Document{}, wantErr },
	}
	indexer := &mockIndexer{submitOK: true}
	svc := newService(t, normalizer, indexer)

	if _, err := svc.Ingest(context.Background(), map[string]any{}, ""); !errors.Is(err, wantErr) {
		t.Fatalf("Ingest error = %v, want %v", err, wantErr)
	}
	if len(indexer.submitted) != 0 {
		t.Errorf("indexer received %d documents, want none", len(indexer.submitted))
	}
}

func TestIngest_SubmitFailure(t *testing.T) {
	normalizer := &mockNormalizer{
		fn: func(map[string]any, string) (domain.Document, error) {
			return domain.Document{DocumentID: "doc-2"}, nil
		},
	}
	svc := newService(t, normalizer, &mockIndexer{submitOK: false})

	if _, err := svc.Ingest(context.Background(), map[string]any{}, ""); !errors.Is(err, ErrSubmitFailed) {
		t.Fatalf("Ingest error = %v, want ErrSubmitFailed", err)
	}
}

func TestIngestBatch_IsolatesFailures(t *testing.T) {
	normalizer := &mockNormalizer{
		fn: func(raw map[string]any, sourcePath string) (domain.Document, error) {
			if sourcePath == "/in/bad.pdf" {
				return domain.Document{}, &domain.ValidationError{Violations: []string{"content must be a list"}}
			}
			return domain.Document{DocumentID: "id-" + sourcePath}, nil
		},
	}
	indexer := &mockIndexer{submitOK: true}
	svc := newService(t, normalizer, indexer)

	result := svc.IngestBatch(context.Background(), []RawDocument{
		{SourcePath: "/in/a.pdf"},
		{SourcePath: "/in/bad.pdf"},
		{SourcePath: "/in/b.pdf"},
	})

	if result.Total != 3 {
		t.Errorf("total = %d, want 3", result.Total)
	}
	if len(result.Successful) != 2 {
		t.Fatalf("successful = %d, want 2", len(result.Successful))
	}
	if len(result.Failed) != 1 {
		t.Fatalf("failed = %d, want 1", len(result.Failed))
	}
	if result.Failed[0].SourcePath != "/in/bad.pdf" {
		t.Errorf("failed source = %q, want /in/bad.pdf", result.Failed[0].SourcePath)
	}
	if result.Failed[0].Error == "" {
		t.Error("failed entry has no error message")
	}
	if result.Successful[1].DocumentID != "id-/in/b.pdf" {
		t.Errorf("second success id = %q", result.Successful[1].DocumentID)
	}
}

func TestIngestBatch_Empty(t *testing.T) {
	svc := newService(t, &mockNormalizer{fn: func(map[string]any, string) (domain.Document, error) {
		return domain.Document{}, fmt.Errorf("unexpected call")
	}}, &mockIndexer{})

	result := svc.IngestBatch(context.Background(), nil)
	if result.Total != 0 || len(result.Successful) != 0 || len(result.Failed) != 0 {
		t.Errorf("empty batch result = %+v", result)
	}
}

func TestDelete_Forwards(t *testing.T) {
	indexer := &mockIndexer{deleteOK: true}
	svc := newService(t, &mockNormalizer{}, indexer)

	if !svc.Delete(context.Background(), "doc-9") {
		t.Fatal("Delete = false, want true")
	}
	if len(indexer.deleted) != 1 || indexer.deleted[0] != "doc-9" {
		t.Errorf("deleted = %v, want [doc-9]", indexer.deleted)
	}
}
