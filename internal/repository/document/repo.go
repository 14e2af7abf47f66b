// Package document persists envelope documents through the engine store.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mtsarev06/es-orm/internal/domain"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
	"github.com/mtsarev06/es-orm/internal/es"
	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
)

// store is the consumer interface for document persistence (ISP).
type store interface {
	IndexDoc(ctx context.Context, index, id string, body []byte) (es.IndexResult, error)
	GetDoc(ctx context.Context, index, id string) ([]byte, error)
	DeleteDoc(ctx context.Context, index, id string) error
	DocExists(ctx context.Context, index, id string) (bool, error)
	Count(ctx context.Context, index string) (int, error)
	Bulk(ctx context.Context, index string, items []es.BulkItem) (es.BulkStats, error)
}

// Outcome is the result of one document in a bulk save.
type Outcome struct {
	ID  string
	OK  bool
	Err error
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save serializes the document's envelopes and indexes it. A document without
// an id gets one assigned by the engine; the returned meta carries it.
func (r *Repo) Save(ctx context.Context, index string, doc *domdoc.Document) (domdoc.Meta, error) {
	body, err := json.Marshal(buildSource(doc))
	if err != nil {
		return domdoc.Meta{}, fmt.Errorf("marshal document: %w", err)
	}

	res, err := r.store.IndexDoc(ctx, index, doc.Meta().ID, body)
	if err != nil {
		if errors.Is(err, es.ErrIndexNotFound) {
			return domdoc.Meta{}, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, index)
		}
		return domdoc.Meta{}, fmt.Errorf("index document: %w", err)
	}
	return domdoc.Meta{ID: res.ID, Index: index, Version: res.Version}, nil
}

// Get fetches a document by id and hydrates its envelopes.
func (r *Repo) Get(ctx context.Context, index string, s *schema.Schema, id string) (*domdoc.Document, error) {
	raw, err := r.store.GetDoc(ctx, index, id)
	if err != nil {
		if errors.Is(err, es.ErrDocNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		if errors.Is(err, es.ErrIndexNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, index)
		}
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}

	var src map[string]any
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return domdoc.Reconstruct(s, parseSource(s, src), domdoc.Meta{ID: id, Index: index}), nil
}

// Delete removes a document by id.
func (r *Repo) Delete(ctx context.Context, index, id string) error {
	if err := r.store.DeleteDoc(ctx, index, id); err != nil {
		if errors.Is(err, es.ErrDocNotFound) {
			return domain.ErrDocumentNotFound
		}
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// Exists reports whether a document exists.
func (r *Repo) Exists(ctx context.Context, index, id string) (bool, error) {
	ok, err := r.store.DocExists(ctx, index, id)
	if err != nil {
		return false, fmt.Errorf("check document %s: %w", id, err)
	}
	return ok, nil
}

// Count returns the number of documents in the index.
func (r *Repo) Count(ctx context.Context, index string) (int, error) {
	n, err := r.store.Count(ctx, index)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", index, err)
	}
	return n, nil
}

// BulkSave indexes documents through the bulk API. Documents without an id
// get a client-assigned one so outcomes can be correlated per document.
func (r *Repo) BulkSave(ctx context.Context, index string, docs []*domdoc.Document) ([]Outcome, error) {
	items := make([]es.BulkItem, len(docs))
	outcomes := make([]Outcome, len(docs))
	for i, doc := range docs {
		meta := doc.Meta()
		if meta.ID == "" {
			meta.ID = uuid.NewString()
			meta.Index = index
			doc.SetMeta(meta)
		}
		body, err := json.Marshal(buildSource(doc))
		if err != nil {
			return nil, fmt.Errorf("marshal document %s: %w", meta.ID, err)
		}
		items[i] = es.BulkItem{ID: meta.ID, Body: body}
		outcomes[i] = Outcome{ID: meta.ID, OK: true}
	}

	stats, err := r.store.Bulk(ctx, index, items)
	if err != nil {
		return nil, fmt.Errorf("bulk save: %w", err)
	}

	failed := make(map[string]string, len(stats.Errors))
	for _, be := range stats.Errors {
		failed[be.ID] = be.Reason
	}
	for i := range outcomes {
		if reason, ok := failed[outcomes[i].ID]; ok {
			outcomes[i].OK = false
			outcomes[i].Err = errors.New(reason)
		}
	}
	return outcomes, nil
}
