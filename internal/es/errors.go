package es

import "errors"

// Sentinel errors for engine operations.
var (
	ErrDocNotFound   = errors.New("es: document not found")
	ErrIndexNotFound = errors.New("es: index not found")
	ErrIndexExists   = errors.New("es: index already exists")
)

// Op constants map to Elasticsearch API endpoints for error context.
const (
	OpPing          = "ping"
	OpIndicesCreate = "indices.create"
	OpIndicesExists = "indices.exists"
	OpPutMapping    = "indices.put_mapping"
	OpRefresh       = "indices.refresh"
	OpIndex         = "index"
	OpGet           = "get"
	OpDelete        = "delete"
	OpExists        = "exists"
	OpCount         = "count"
	OpBulk          = "bulk"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
