// Package elastic wraps the official Elasticsearch client behind the small
// surface the repositories need: search, index, bulk, and readiness.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Config holds connection parameters for the search backend.
type Config struct {
	Addresses []string
	Username  string
	Password  string
}

// Client is a thin wrapper over the Elasticsearch client.
type Client struct {
	es *elasticsearch.Client
}

// NewClient creates a search backend client.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Client{es: es}, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer closeBody(res)

	if res.IsError() {
		return fmt.Errorf("ping: %s", res.Status())
	}
	return nil
}

// WaitForReady polls Ping until the backend responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for search backend: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Search executes one search request body against an index and decodes the
// response envelope.
func (c *Client) Search(ctx context.Context, index string, body any) (*SearchResponse, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	defer closeBody(res)

	if res.IsError() {
		return nil, responseError("search", index, res)
	}

	var sr SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &sr, nil
}

// IndexDocument writes one document under the given id.
func (c *Client) IndexDocument(ctx context.Context, index, id string, doc any) error {
	payload, err := encodeBody(doc)
	if err != nil {
		return err
	}

	res, err := c.es.Index(
		index,
		payload,
		c.es.Index.WithDocumentID(id),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index document %s/%s: %w", index, id, err)
	}
	defer closeBody(res)

	if res.IsError() {
		return responseError("index document", index, res)
	}
	return nil
}

// BulkDoc is one document of a bulk index request.
type BulkDoc struct {
	ID  string
	Doc any
}

// BulkIndex writes a batch of documents in one request.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []BulkDoc) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, d := range docs {
		action := map[string]any{"index": map[string]any{"_index": index, "_id": d.ID}}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return fmt.Errorf("encode bulk action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(d.Doc); err != nil {
			return fmt.Errorf("encode bulk document %s: %w", d.ID, err)
		}
	}

	res, err := c.es.Bulk(&buf, c.es.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk index %s: %w", index, err)
	}
	defer closeBody(res)

	if res.IsError() {
		return responseError("bulk index", index, res)
	}
	return nil
}

// EnsureIndex creates the index with the given mapping unless it exists.
func (c *Client) EnsureIndex(ctx context.Context, index, mapping string) error {
	exists, err := c.es.Indices.Exists(
		[]string{index},
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	closeBody(exists)

	if exists.StatusCode == 200 {
		return nil
	}

	res, err := c.es.Indices.Create(
		index,
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer closeBody(res)

	if res.IsError() {
		return responseError("create index", index, res)
	}
	return nil
}

func encodeBody(body any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return &buf, nil
}

// responseError extracts the backend's error detail from a non-2xx response.
func responseError(op, index string, res *esapi.Response) error {
	var er errorResponse
	if err := json.NewDecoder(res.Body).Decode(&er); err == nil && er.Error.Reason != "" {
		return fmt.Errorf("%s %s: %s: %s", op, index, er.Error.Type, er.Error.Reason)
	}
	return fmt.Errorf("%s %s: %s", op, index, res.Status())
}

func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}
