// Package index manages engine-side index mappings derived from schemas.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/mtsarev06/es-orm/internal/es"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, name string, body []byte) error
	IndexExists(ctx context.Context, name string) (bool, error)
	PutMapping(ctx context.Context, name string, body []byte) error
	Refresh(ctx context.Context, name string) error
}

// Repo implements usecase/index.Repository.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Ensure creates the index with the schema's mapping, or pushes the mapping
// onto an existing index. Idempotent; concurrent creation races resolve to
// the put-mapping path.
func (r *Repo) Ensure(ctx context.Context, name string, s *schema.Schema) error {
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}

	if !exists {
		body, err := CreateBody(s)
		if err != nil {
			return err
		}
		err = r.store.CreateIndex(ctx, name, body)
		if err == nil {
			return nil
		}
		if !errors.Is(err, es.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}

	body, err := MappingBody(s)
	if err != nil {
		return err
	}
	if err := r.store.PutMapping(ctx, name, body); err != nil {
		return fmt.Errorf("put mapping %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the index exists.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", name, err)
	}
	return ok, nil
}

// Refresh makes recent writes to the index visible.
func (r *Repo) Refresh(ctx context.Context, name string) error {
	if err := r.store.Refresh(ctx, name); err != nil {
		return fmt.Errorf("refresh %s: %w", name, err)
	}
	return nil
}
