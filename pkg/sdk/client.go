package docsift

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the server reports a missing document.
var ErrNotFound = errors.New("document not found")

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Client talks to a docsift server over HTTP.
type Client struct {
	baseURL string
	hc      *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithToken sets a bearer token obtained outside Login.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login obtains a bearer token and stores it on the client for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var tok tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &tok); err != nil {
		return err
	}
	c.token = tok.AccessToken
	return nil
}

// IngestResult describes a successfully indexed document.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Checksum   string `json:"checksum"`
	Items      int    `json:"items"`
}

// IngestDocument submits one raw extracted payload for indexing.
func (c *Client) IngestDocument(ctx context.Context, payload map[string]any, sourcePath string) (IngestResult, error) {
	path := "/documents"
	if sourcePath != "" {
		path += "?source_path=" + url.QueryEscape(sourcePath)
	}
	var res IngestResult
	err := c.do(ctx, http.MethodPost, path, payload, &res)
	return res, err
}

// IngestBatch submits several payloads; per-document failures are reported
// in the result, not as an error.
func (c *Client) IngestBatch(ctx context.Context, docs []RawDocument) (BatchResult, error) {
	body := map[string]any{"documents": docs}
	var res BatchResult
	err := c.do(ctx, http.MethodPost, "/documents/batch", body, &res)
	return res, err
}

// DeleteDocument removes a document. Missing documents yield ErrNotFound.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	err := c.do(ctx, http.MethodDelete, "/documents/"+url.PathEscape(documentID), nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

// Search runs a full-text query.
func (c *Client) Search(ctx context.Context, q SearchQuery) (SearchResponse, error) {
	var resp SearchResponse
	err := c.do(ctx, http.MethodPost, "/search", q, &resp)
	return resp, err
}

// Health fetches the server's health report. A degraded or unhealthy server
// still returns a report, not an error.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return HealthReport{}, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("health request: %w", err)
	}
	defer res.Body.Close()

	var report HealthReport
	if err := json.NewDecoder(res.Body).Decode(&report); err != nil {
		return HealthReport{}, fmt.Errorf("decode health report: %w", err)
	}
	return report, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf *bytes.Buffer
	if body != nil {
		buf = &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		apiErr := &APIError{Status: res.StatusCode, Code: "unknown", Message: res.Status}
		_ = json.NewDecoder(res.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
