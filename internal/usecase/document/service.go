// Package document orchestrates document CRUD over the envelope model.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/mtsarev06/es-orm/internal/domain/field"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
	"github.com/mtsarev06/es-orm/internal/repository/document"
	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
)

// now is swapped in tests.
var now = time.Now

// Service handles document operations.
type Service struct {
	repo Repository
}

var _ Operations = (*Service)(nil)

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save cleans the document, stamps the timestamp field when enabled, and
// persists it. The document's meta is updated with the engine-assigned id.
func (s *Service) Save(ctx context.Context, index string, doc *domdoc.Document) error {
	if err := s.prepare(doc); err != nil {
		return err
	}
	meta, err := s.repo.Save(ctx, index, doc)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	doc.SetMeta(meta)
	return nil
}

// Get fetches a document by id.
func (s *Service) Get(ctx context.Context, index string, sch *schema.Schema, id string) (*domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, index, sch, id)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return doc, nil
}

// Set performs a partial update: fetch, run the named fields through the
// validation path, save. Fields not named keep their stored values.
func (s *Service) Set(
	ctx context.Context, index string, sch *schema.Schema, id string, values map[string]any,
) (*domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, index, sch, id)
	if err != nil {
		return nil, fmt.Errorf("set: %w", err)
	}
	if err := doc.SetAll(values); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, index, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document by id.
func (s *Service) Delete(ctx context.Context, index, id string) error {
	return s.repo.Delete(ctx, index, id)
}

// Exists reports whether a document exists.
func (s *Service) Exists(ctx context.Context, index, id string) (bool, error) {
	return s.repo.Exists(ctx, index, id)
}

// Count returns the number of documents in the index.
func (s *Service) Count(ctx context.Context, index string) (int, error) {
	return s.repo.Count(ctx, index)
}

// BulkSave persists documents through the bulk API. Documents failing the
// local clean are reported in their outcome and never sent to the engine.
func (s *Service) BulkSave(
	ctx context.Context, index string, docs []*domdoc.Document,
) ([]document.Outcome, error) {
	valid := make([]*domdoc.Document, 0, len(docs))
	skipped := make(map[*domdoc.Document]error)
	for _, doc := range docs {
		if err := s.prepare(doc); err != nil {
			skipped[doc] = err
			continue
		}
		valid = append(valid, doc)
	}

	sent, err := s.repo.BulkSave(ctx, index, valid)
	if err != nil {
		return nil, fmt.Errorf("bulk save: %w", err)
	}

	outcomes := make([]document.Outcome, 0, len(docs))
	i := 0
	for _, doc := range docs {
		if err, ok := skipped[doc]; ok {
			outcomes = append(outcomes, document.Outcome{ID: doc.Meta().ID, Err: err})
			continue
		}
		outcomes = append(outcomes, sent[i])
		i++
	}
	return outcomes, nil
}

// prepare runs the pre-save pipeline shared by Save and BulkSave.
func (s *Service) prepare(doc *domdoc.Document) error {
	if err := doc.Clean(); err != nil {
		return err
	}
	if doc.Schema().Timestamp() && field.IsEmpty(doc.Value(schema.TimestampField)) {
		if err := doc.Set(schema.TimestampField, now().UTC()); err != nil {
			return err
		}
	}
	return nil
}
