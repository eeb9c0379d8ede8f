// Package es defines the backing search engine facade. Repositories depend
// on the Store interface, never on the Elasticsearch client directly.
package es

import (
	"context"
	"encoding/json"
)

// Store is the search engine facade.
type Store interface {
	Pinger
	IndexManager
	DocumentStore
	Searcher
	HealthReporter
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	CreateIndex(ctx context.Context, name string, mapping []byte) error
}

// DocumentStore provides document write operations. Index is an upsert keyed
// by id: the engine result string distinguishes "created" from "updated".
type DocumentStore interface {
	Index(ctx context.Context, index, id string, body []byte) (string, error)
	Delete(ctx context.Context, index, id string) (string, error)
}

// Searcher executes a raw query body with engine-level pagination.
type Searcher interface {
	Search(ctx context.Context, index string, body []byte, size, from int) (*SearchReply, error)
}

// HealthReporter exposes cluster and index health state.
type HealthReporter interface {
	ClusterHealth(ctx context.Context) (*ClusterHealth, error)
	IndexStats(ctx context.Context, index string) (*IndexStats, error)
}

// SearchReply is the engine response for a search call.
type SearchReply struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// Hit is one document-level match. InnerHits is keyed by the name of the
// nested block that produced the per-entry matches.
type Hit struct {
	ID        string                 `json:"_id"`
	Score     float64                `json:"_score"`
	Source    json.RawMessage        `json:"_source"`
	InnerHits map[string]InnerHitSet `json:"inner_hits,omitempty"`
}

// InnerHitSet holds the nested entries of one parent hit that individually
// satisfied the query.
type InnerHitSet struct {
	Hits struct {
		Hits []InnerHit `json:"hits"`
	} `json:"hits"`
}

// InnerHit is one matching nested entry, with optional highlight fragments
// keyed by field path.
type InnerHit struct {
	Source    json.RawMessage     `json:"_source"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// ClusterHealth summarizes engine cluster state.
type ClusterHealth struct {
	ClusterName   string `json:"cluster_name"`
	Status        string `json:"status"`
	NumberOfNodes int    `json:"number_of_nodes"`
}

// IndexStats summarizes one index.
type IndexStats struct {
	DocumentCount int64
	SizeInBytes   int64
}

// Engine write results.
const (
	ResultCreated = "created"
	ResultUpdated = "updated"
	ResultDeleted = "deleted"
)
