// Package es wraps the official Elasticsearch client behind a narrow store
// facade. Consumers depend on the sub-interfaces they need, never on the
// client itself.
package es

import (
	"context"
	"time"
)

// Store is the engine facade combining all sub-interfaces.
type Store interface {
	Pinger
	IndexManager
	DocumentStore
	Bulker
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, name string, body []byte) error
	IndexExists(ctx context.Context, name string) (bool, error)
	PutMapping(ctx context.Context, name string, body []byte) error
	Refresh(ctx context.Context, name string) error
}

// IndexResult holds engine-assigned metadata of an indexed document.
type IndexResult struct {
	ID      string
	Version int64
}

// DocumentStore provides single-document CRUD operations.
type DocumentStore interface {
	IndexDoc(ctx context.Context, index, id string, body []byte) (IndexResult, error)
	GetDoc(ctx context.Context, index, id string) ([]byte, error)
	DeleteDoc(ctx context.Context, index, id string) error
	DocExists(ctx context.Context, index, id string) (bool, error)
	Count(ctx context.Context, index string) (int, error)
}

// BulkItem is a single document in a bulk index request.
type BulkItem struct {
	ID   string
	Body []byte
}

// BulkError describes one failed action of a bulk request.
type BulkError struct {
	ID     string
	Reason string
}

// BulkStats summarizes the outcome of a bulk request.
type BulkStats struct {
	Indexed int
	Failed  int
	Errors  []BulkError
}

// Bulker provides batched indexing.
type Bulker interface {
	Bulk(ctx context.Context, index string, items []BulkItem) (BulkStats, error)
}
