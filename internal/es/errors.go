package es

import "errors"

// Sentinel errors for engine operations.
var (
	ErrNotFound      = errors.New("es: document not found")
	ErrIndexNotFound = errors.New("es: index not found")
)

// Op constants name the Elasticsearch API calls for error context.
const (
	OpPing          = "ping"
	OpIndexExists   = "indices.exists"
	OpCreateIndex   = "indices.create"
	OpIndexStats    = "indices.stats"
	OpIndex         = "index"
	OpDelete        = "delete"
	OpSearch        = "search"
	OpClusterHealth = "cluster.health"
)

// Error wraps an underlying error with the API operation for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
