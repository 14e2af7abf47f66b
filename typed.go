package esorm

import (
	"context"
	"fmt"
)

// TypedIndex is a generic, schema-first index backed by an esorm Client.
// Schema is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	inner *Index
	meta  *schemaMeta
}

// NewIndex creates a typed index handle for the given index name.
// T must be a struct with esorm tags. Schema is parsed once and cached.
func NewIndex[T any](client *Client, name string, opts ...IndexOption) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}
	inner, err := newIndex(client, name, meta.fields, opts...)
	if err != nil {
		return nil, err
	}
	return &TypedIndex[T]{inner: inner, meta: meta}, nil
}

// Raw returns the untyped handle over the same index, for envelope-level
// access or partial updates.
func (idx *TypedIndex[T]) Raw() *Index {
	return idx.inner
}

// Init creates the index with the schema's computed mapping (idempotent).
func (idx *TypedIndex[T]) Init(ctx context.Context) error {
	return idx.inner.Init(ctx)
}

// Save validates and persists a single item. Returns the engine-assigned id.
func (idx *TypedIndex[T]) Save(ctx context.Context, item T) (string, error) {
	doc, err := idx.toDoc(item)
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	if err := idx.inner.Save(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID(), nil
}

// SaveAll validates and persists items in one bulk request. Items that fail
// validation are skipped, never sent, and reported in their result slot.
func (idx *TypedIndex[T]) SaveAll(ctx context.Context, items []T) ([]BulkResult, error) {
	results := make([]BulkResult, len(items))
	docs := make([]*Document, 0, len(items))
	sent := make([]int, 0, len(items))
	for i, item := range items {
		doc, err := idx.toDoc(item)
		if err != nil {
			results[i] = BulkResult{ID: idx.meta.extractID(item), Err: err}
			continue
		}
		docs = append(docs, doc)
		sent = append(sent, i)
	}

	bulk, err := idx.inner.SaveAll(ctx, docs)
	if err != nil {
		return nil, err
	}
	for j, r := range bulk {
		results[sent[j]] = r
	}
	return results, nil
}

// Get retrieves a typed item by id.
func (idx *TypedIndex[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := idx.inner.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	out, err := idx.meta.fromDocument(doc.inner)
	if err != nil {
		return zero, err
	}
	item, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("get: type assertion failed")
	}
	return item, nil
}

// Set applies a partial update and returns the updated item.
func (idx *TypedIndex[T]) Set(ctx context.Context, id string, values map[string]any) (T, error) {
	var zero T
	doc, err := idx.inner.Set(ctx, id, values)
	if err != nil {
		return zero, err
	}
	out, err := idx.meta.fromDocument(doc.inner)
	if err != nil {
		return zero, err
	}
	item, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("set: type assertion failed")
	}
	return item, nil
}

// Delete removes an item by id.
func (idx *TypedIndex[T]) Delete(ctx context.Context, id string) error {
	return idx.inner.Delete(ctx, id)
}

// Exists reports whether an item with the given id exists.
func (idx *TypedIndex[T]) Exists(ctx context.Context, id string) (bool, error) {
	return idx.inner.ExistsDoc(ctx, id)
}

// Count returns the number of items in the index.
func (idx *TypedIndex[T]) Count(ctx context.Context) (int, error) {
	return idx.inner.Count(ctx)
}

// Refresh makes recent writes visible to Count.
func (idx *TypedIndex[T]) Refresh(ctx context.Context) error {
	return idx.inner.Refresh(ctx)
}

func (idx *TypedIndex[T]) toDoc(item T) (*Document, error) {
	doc := idx.inner.NewDocument()
	if id := idx.meta.extractID(item); id != "" {
		doc.SetID(id)
	}
	if err := doc.SetAll(idx.meta.toValues(item)); err != nil {
		return nil, err
	}
	return doc, nil
}
