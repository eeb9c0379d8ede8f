// Package index owns the document index: its schema, and submitting and
// deleting documents against it.
package index

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/domain"
	"github.com/siftlabs/docsift/internal/es"
)

// store is the consumer interface for index operations (ISP).
type store interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	CreateIndex(ctx context.Context, name string, mapping []byte) error
	Index(ctx context.Context, index, id string, body []byte) (string, error)
	Delete(ctx context.Context, index, id string) (string, error)
}

// Repo is the index gateway. Submission and deletion failures are logged and
// reported as false, never raised: retrying is the caller's decision.
type Repo struct {
	store  store
	index  string
	logger *zap.Logger
}

// New creates an index gateway for the named index.
func New(s store, indexName string, logger *zap.Logger) *Repo {
	return &Repo{store: s, index: indexName, logger: logger}
}

// IndexName returns the backing index name.
func (r *Repo) IndexName() string { return r.index }

// EnsureIndex creates the index with the fixed schema if it does not exist.
// Safe to call repeatedly.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, r.index, []byte(Mapping)); err != nil {
		return err
	}
	r.logger.Info("created document index", zap.String("index", r.index))
	return nil
}

// Submit upserts the document keyed by its document id. Re-submitting the
// same id replaces the prior record.
func (r *Repo) Submit(ctx context.Context, doc *domain.Document) bool {
	body, err := json.Marshal(toIndexed(doc))
	if err != nil {
		r.logger.Error("failed to encode document for indexing",
			zap.String("document_id", doc.DocumentID),
			zap.Error(err),
		)
		return false
	}

	result, err := r.store.Index(ctx, r.index, doc.DocumentID, body)
	if err != nil {
		r.logger.Error("failed to index document",
			zap.String("document_id", doc.DocumentID),
			zap.Error(err),
		)
		return false
	}

	r.logger.Info("indexed document",
		zap.String("document_id", doc.DocumentID),
		zap.String("result", result),
	)
	return result == es.ResultCreated || result == es.ResultUpdated
}

// Delete removes the document with the given id from the index.
func (r *Repo) Delete(ctx context.Context, documentID string) bool {
	result, err := r.store.Delete(ctx, r.index, documentID)
	if err != nil {
		if errors.Is(err, es.ErrNotFound) {
			r.logger.Warn("document not found for deletion", zap.String("document_id", documentID))
		} else {
			r.logger.Error("failed to delete document",
				zap.String("document_id", documentID),
				zap.Error(err),
			)
		}
		return false
	}

	r.logger.Info("deleted document",
		zap.String("document_id", documentID),
		zap.String("result", result),
	)
	return result == es.ResultDeleted
}
