package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

// Config holds engine connection settings.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	APIKey    string
	Transport http.RoundTripper
}

// Client implements Store over the official Elasticsearch client.
type Client struct {
	es *elasticsearch.Client
}

var _ Store = (*Client)(nil)

// NewClient connects to the engine. The underlying client is safe for
// concurrent use; no additional locking is introduced here.
func NewClient(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{es: es}, nil
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) error {
	res, err := esapi.PingRequest{}.Do(ctx, c.es)
	if err != nil {
		return &Error{Op: OpPing, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return &Error{Op: OpPing, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
	return nil
}

// WaitForReady polls the engine until it responds or the timeout elapses.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		if lastErr = c.Ping(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("engine not ready after %s: %w", timeout, lastErr)
}

// CreateIndex creates an index with the given settings/mappings body.
func (c *Client) CreateIndex(ctx context.Context, name string, body []byte) error {
	res, err := esapi.IndicesCreateRequest{
		Index: name,
		Body:  bytes.NewReader(body),
	}.Do(ctx, c.es)
	if err != nil {
		return &Error{Op: OpIndicesCreate, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return &Error{Op: OpIndicesCreate, Err: decodeError(res)}
	}
	return nil
}

// IndexExists reports whether the index exists.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := esapi.IndicesExistsRequest{Index: []string{name}}.Do(ctx, c.es)
	if err != nil {
		return false, &Error{Op: OpIndicesExists, Err: err}
	}
	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &Error{Op: OpIndicesExists, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
}

// PutMapping updates the mapping of an existing index.
func (c *Client) PutMapping(ctx context.Context, name string, body []byte) error {
	res, err := esapi.IndicesPutMappingRequest{
		Index: []string{name},
		Body:  bytes.NewReader(body),
	}.Do(ctx, c.es)
	if err != nil {
		return &Error{Op: OpPutMapping, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return &Error{Op: OpPutMapping, Err: decodeError(res)}
	}
	return nil
}

// Refresh makes recent writes visible to search and count.
func (c *Client) Refresh(ctx context.Context, name string) error {
	res, err := esapi.IndicesRefreshRequest{Index: []string{name}}.Do(ctx, c.es)
	if err != nil {
		return &Error{Op: OpRefresh, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return &Error{Op: OpRefresh, Err: decodeError(res)}
	}
	return nil
}

// IndexDoc indexes one document. An empty id lets the engine assign one.
func (c *Client) IndexDoc(ctx context.Context, index, id string, body []byte) (IndexResult, error) {
	res, err := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}.Do(ctx, c.es)
	if err != nil {
		return IndexResult{}, &Error{Op: OpIndex, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return IndexResult{}, &Error{Op: OpIndex, Err: decodeError(res)}
	}

	var out struct {
		ID      string `json:"_id"`
		Version int64  `json:"_version"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return IndexResult{}, &Error{Op: OpIndex, Err: fmt.Errorf("decode response: %w", err)}
	}
	return IndexResult{ID: out.ID, Version: out.Version}, nil
}

// GetDoc fetches a document's source by id.
func (c *Client) GetDoc(ctx context.Context, index, id string) ([]byte, error) {
	res, err := esapi.GetRequest{Index: index, DocumentID: id}.Do(ctx, c.es)
	if err != nil {
		return nil, &Error{Op: OpGet, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, ErrDocNotFound
	}
	if res.IsError() {
		return nil, &Error{Op: OpGet, Err: decodeError(res)}
	}

	var out struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, &Error{Op: OpGet, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !out.Found {
		return nil, ErrDocNotFound
	}
	return out.Source, nil
}

// DeleteDoc removes a document by id.
func (c *Client) DeleteDoc(ctx context.Context, index, id string) error {
	res, err := esapi.DeleteRequest{Index: index, DocumentID: id}.Do(ctx, c.es)
	if err != nil {
		return &Error{Op: OpDelete, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return ErrDocNotFound
	}
	if res.IsError() {
		return &Error{Op: OpDelete, Err: decodeError(res)}
	}
	return nil
}

// DocExists reports whether a document exists.
func (c *Client) DocExists(ctx context.Context, index, id string) (bool, error) {
	res, err := esapi.ExistsRequest{Index: index, DocumentID: id}.Do(ctx, c.es)
	if err != nil {
		return false, &Error{Op: OpExists, Err: err}
	}
	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &Error{Op: OpExists, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
}

// Count returns the number of documents in an index.
func (c *Client) Count(ctx context.Context, index string) (int, error) {
	res, err := esapi.CountRequest{Index: []string{index}}.Do(ctx, c.es)
	if err != nil {
		return 0, &Error{Op: OpCount, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, &Error{Op: OpCount, Err: decodeError(res)}
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, &Error{Op: OpCount, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.Count, nil
}

// Bulk indexes items through the bulk API and reports per-item outcomes.
func (c *Client) Bulk(ctx context.Context, index string, items []BulkItem) (BulkStats, error) {
	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client: c.es,
		Index:  index,
	})
	if err != nil {
		return BulkStats{}, &Error{Op: OpBulk, Err: err}
	}

	// Indexer callbacks run concurrently.
	var mu sync.Mutex
	var failures []BulkError

	for _, item := range items {
		err := indexer.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: item.ID,
			Body:       bytes.NewReader(item.Body),
			OnFailure: func(_ context.Context, bi esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				reason := res.Error.Reason
				if err != nil {
					reason = err.Error()
				}
				mu.Lock()
				failures = append(failures, BulkError{ID: bi.DocumentID, Reason: reason})
				mu.Unlock()
			},
		})
		if err != nil {
			return BulkStats{}, &Error{Op: OpBulk, Err: err}
		}
	}

	if err := indexer.Close(ctx); err != nil {
		return BulkStats{}, &Error{Op: OpBulk, Err: err}
	}

	stats := indexer.Stats()
	return BulkStats{
		Indexed: int(stats.NumFlushed),
		Failed:  int(stats.NumFailed),
		Errors:  failures,
	}, nil
}

// decodeError extracts the engine's error type and reason from a response
// body and maps well-known exceptions onto sentinel errors.
func decodeError(res *esapi.Response) error {
	var body struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
		Status int `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("status %d", res.StatusCode)
	}
	switch body.Error.Type {
	case "resource_already_exists_exception":
		return ErrIndexExists
	case "index_not_found_exception":
		return ErrIndexNotFound
	}
	return fmt.Errorf("%s: %s", body.Error.Type, body.Error.Reason)
}
