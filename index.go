package esorm

import (
	"context"
	"fmt"

	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
	"github.com/mtsarev06/es-orm/internal/domain/field"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
)

// IndexOption customizes an index handle.
type IndexOption func(*indexConfig)

type indexConfig struct {
	timestamp bool
}

// WithTimestamp adds an automatic "timestamp" date field stamped on every
// save that does not set it explicitly.
func WithTimestamp() IndexOption {
	return func(c *indexConfig) {
		c.timestamp = true
	}
}

// Index is a handle over one engine index with a fixed schema. All document
// operations validate against that schema before touching the engine.
type Index struct {
	client *Client
	name   string
	schema *schema.Schema
}

func newIndex(c *Client, name string, fields []Field, opts ...IndexOption) (*Index, error) {
	if name == "" {
		return nil, fmt.Errorf("index name is empty")
	}
	var cfg indexConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	descs := make([]field.Descriptor, 0, len(fields))
	for _, f := range fields {
		d, err := f.descriptor()
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", name, err)
		}
		descs = append(descs, d)
	}
	var schemaOpts []schema.Option
	if cfg.timestamp {
		schemaOpts = append(schemaOpts, schema.WithTimestamp())
	}
	sch, err := schema.New(descs, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", name, err)
	}
	return &Index{client: c, name: name, schema: sch}, nil
}

// Name returns the engine index name.
func (ix *Index) Name() string {
	return ix.name
}

// Init creates the index with the schema's computed mapping, or pushes the
// mapping onto an existing index. Safe to call repeatedly.
func (ix *Index) Init(ctx context.Context) error {
	return ix.client.idxSvc.Init(ctx, ix.name, ix.schema)
}

// Exists reports whether the index exists in the engine.
func (ix *Index) Exists(ctx context.Context) (bool, error) {
	return ix.client.idxSvc.Exists(ctx, ix.name)
}

// Refresh makes recent writes visible to Count.
func (ix *Index) Refresh(ctx context.Context) error {
	return ix.client.idxSvc.Refresh(ctx, ix.name)
}

// NewDocument returns an empty document bound to the index schema.
func (ix *Index) NewDocument() *Document {
	return &Document{inner: domdoc.New(ix.schema)}
}

// NewDocumentFrom builds a document from a plain mapping. Strict-level
// validation failures abort with an error wrapping ErrValidation.
func (ix *Index) NewDocumentFrom(values map[string]any) (*Document, error) {
	doc := domdoc.New(ix.schema)
	if err := doc.SetAll(values); err != nil {
		return nil, err
	}
	return &Document{inner: doc}, nil
}

// Save persists the document and records the engine-assigned id and version
// on it. Required fields must be set; empty values for defaulted fields are
// substituted at serialization time.
func (ix *Index) Save(ctx context.Context, doc *Document) error {
	return ix.client.docSvc.Save(ctx, ix.name, doc.inner)
}

// SaveAll persists documents in one bulk request. Documents that fail local
// validation are skipped, never sent, and reported in their result slot.
func (ix *Index) SaveAll(ctx context.Context, docs []*Document) ([]BulkResult, error) {
	inner := make([]*domdoc.Document, len(docs))
	for i, d := range docs {
		inner[i] = d.inner
	}
	outcomes, err := ix.client.docSvc.BulkSave(ctx, ix.name, inner)
	if err != nil {
		return nil, err
	}
	results := make([]BulkResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = BulkResult{ID: o.ID, OK: o.OK, Err: o.Err}
	}
	return results, nil
}

// Get fetches a document by id. Returns ErrDocumentNotFound when absent.
func (ix *Index) Get(ctx context.Context, id string) (*Document, error) {
	doc, err := ix.client.docSvc.Get(ctx, ix.name, ix.schema, id)
	if err != nil {
		return nil, err
	}
	return &Document{inner: doc}, nil
}

// Set applies a partial update: fetches the document, overwrites the named
// fields through validation, and saves it back.
func (ix *Index) Set(ctx context.Context, id string, values map[string]any) (*Document, error) {
	doc, err := ix.client.docSvc.Set(ctx, ix.name, ix.schema, id, values)
	if err != nil {
		return nil, err
	}
	return &Document{inner: doc}, nil
}

// Delete removes a document by id.
func (ix *Index) Delete(ctx context.Context, id string) error {
	return ix.client.docSvc.Delete(ctx, ix.name, id)
}

// ExistsDoc reports whether a document with the given id exists.
func (ix *Index) ExistsDoc(ctx context.Context, id string) (bool, error) {
	return ix.client.docSvc.Exists(ctx, ix.name, id)
}

// Count returns the number of documents in the index.
func (ix *Index) Count(ctx context.Context) (int, error) {
	return ix.client.docSvc.Count(ctx, ix.name)
}
