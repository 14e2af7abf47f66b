// Package index orchestrates index initialization.
package index

import (
	"context"
	"fmt"

	"github.com/mtsarev06/es-orm/internal/domain/schema"
)

// Service handles index lifecycle.
type Service struct {
	repo Repository
}

// New creates an index service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Init pushes the schema's computed mapping to the engine, creating the
// index when missing. Idempotent; mapping conflicts on an existing index
// surface as whatever the engine reports.
func (s *Service) Init(ctx context.Context, name string, sch *schema.Schema) error {
	if err := s.repo.Ensure(ctx, name, sch); err != nil {
		return fmt.Errorf("init %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the index exists.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	return s.repo.Exists(ctx, name)
}

// Refresh makes recent writes visible to count and search.
func (s *Service) Refresh(ctx context.Context, name string) error {
	return s.repo.Refresh(ctx, name)
}
