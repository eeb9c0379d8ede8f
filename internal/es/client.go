package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
)

// Config holds Elasticsearch connection settings.
type Config struct {
	Addresses      []string
	Username       string
	Password       string
	RequestTimeout time.Duration
}

// DefaultRequestTimeout bounds every engine call when no timeout is configured.
const DefaultRequestTimeout = 5 * time.Second

// Client implements Store on top of the official Elasticsearch client.
type Client struct {
	es      *elasticsearch.Client
	timeout time.Duration
}

var _ Store = (*Client)(nil)

// NewClient creates an Elasticsearch-backed store.
func NewClient(cfg Config) (*Client, error) {
	esc, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &Client{es: esc, timeout: timeout}, nil
}

// Ping checks connectivity to the cluster.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return &Error{Op: OpPing, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &Error{Op: OpPing, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
	return nil
}

// IndexExists reports whether the named index exists.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &Error{Op: OpIndexExists, Err: err}
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &Error{Op: OpIndexExists, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
}

// CreateIndex creates an index with the given mapping body.
func (c *Client) CreateIndex(ctx context.Context, name string, mapping []byte) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.es.Indices.Create(name,
		c.es.Indices.Create.WithBody(bytes.NewReader(mapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return &Error{Op: OpCreateIndex, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &Error{Op: OpCreateIndex, Err: responseError(res.Body, res.StatusCode)}
	}
	return nil
}

// Index upserts a document by id and returns the engine result
// ("created" or "updated").
func (c *Client) Index(ctx context.Context, index, id string, body []byte) (string, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.es.Index(index, bytes.NewReader(body),
		c.es.Index.WithDocumentID(id),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return "", &Error{Op: OpIndex, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", &Error{Op: OpIndex, Err: responseError(res.Body, res.StatusCode)}
	}

	var reply struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return "", &Error{Op: OpIndex, Err: fmt.Errorf("decode response: %w", err)}
	}
	return reply.Result, nil
}

// Delete removes a document by id and returns the engine result.
func (c *Client) Delete(ctx context.Context, index, id string) (string, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.es.Delete(index, id, c.es.Delete.WithContext(ctx))
	if err != nil {
		return "", &Error{Op: OpDelete, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return "", &Error{Op: OpDelete, Err: ErrNotFound}
	}
	if res.IsError() {
		return "", &Error{Op: OpDelete, Err: responseError(res.Body, res.StatusCode)}
	}

	var reply struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return "", &Error{Op: OpDelete, Err: fmt.Errorf("decode response: %w", err)}
	}
	return reply.Result, nil
}

// Search executes a raw query body against the index with engine-level
// pagination.
func (c *Client) Search(ctx context.Context, index string, body []byte, size, from int) (*SearchReply, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithSize(size),
		c.es.Search.WithFrom(from),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, &Error{Op: OpSearch, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, &Error{Op: OpSearch, Err: responseError(res.Body, res.StatusCode)}
	}

	var reply SearchReply
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return nil, &Error{Op: OpSearch, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &reply, nil
}

// ClusterHealth returns a cluster health summary.
func (c *Client) ClusterHealth(ctx context.Context) (*ClusterHealth, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.es.Cluster.Health(c.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return nil, &Error{Op: OpClusterHealth, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, &Error{Op: OpClusterHealth, Err: responseError(res.Body, res.StatusCode)}
	}

	var health ClusterHealth
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return nil, &Error{Op: OpClusterHealth, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &health, nil
}

// IndexStats returns document count and on-disk size for the index.
func (c *Client) IndexStats(ctx context.Context, index string) (*IndexStats, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	res, err := c.es.Indices.Stats(
		c.es.Indices.Stats.WithContext(ctx),
		c.es.Indices.Stats.WithIndex(index),
	)
	if err != nil {
		return nil, &Error{Op: OpIndexStats, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, &Error{Op: OpIndexStats, Err: ErrIndexNotFound}
	}
	if res.IsError() {
		return nil, &Error{Op: OpIndexStats, Err: responseError(res.Body, res.StatusCode)}
	}

	var reply struct {
		All struct {
			Total struct {
				Docs struct {
					Count int64 `json:"count"`
				} `json:"docs"`
				Store struct {
					SizeInBytes int64 `json:"size_in_bytes"`
				} `json:"store"`
			} `json:"total"`
		} `json:"_all"`
	}
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return nil, &Error{Op: OpIndexStats, Err: fmt.Errorf("decode response: %w", err)}
	}

	return &IndexStats{
		DocumentCount: reply.All.Total.Docs.Count,
		SizeInBytes:   reply.All.Total.Store.SizeInBytes,
	}, nil
}

func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// responseError extracts the engine error reason from a non-2xx response body.
func responseError(body io.Reader, status int) error {
	var reply struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&reply); err != nil || reply.Error.Type == "" {
		return fmt.Errorf("status %d", status)
	}
	return fmt.Errorf("status %d: %s: %s", status, reply.Error.Type, reply.Error.Reason)
}
