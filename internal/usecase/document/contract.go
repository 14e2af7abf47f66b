package document

import (
	"context"

	"github.com/mtsarev06/es-orm/internal/domain/schema"
	"github.com/mtsarev06/es-orm/internal/repository/document"
	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
)

// Repository is the persistence contract for documents.
type Repository interface {
	Save(ctx context.Context, index string, doc *domdoc.Document) (domdoc.Meta, error)
	Get(ctx context.Context, index string, s *schema.Schema, id string) (*domdoc.Document, error)
	Delete(ctx context.Context, index, id string) error
	Exists(ctx context.Context, index, id string) (bool, error)
	Count(ctx context.Context, index string) (int, error)
	BulkSave(ctx context.Context, index string, docs []*domdoc.Document) ([]document.Outcome, error)
}

// Operations is the document service surface, implemented by Service and its
// instrumented wrapper.
type Operations interface {
	Save(ctx context.Context, index string, doc *domdoc.Document) error
	Get(ctx context.Context, index string, s *schema.Schema, id string) (*domdoc.Document, error)
	Set(ctx context.Context, index string, s *schema.Schema, id string, values map[string]any) (*domdoc.Document, error)
	Delete(ctx context.Context, index, id string) error
	Exists(ctx context.Context, index, id string) (bool, error)
	Count(ctx context.Context, index string) (int, error)
	BulkSave(ctx context.Context, index string, docs []*domdoc.Document) ([]document.Outcome, error)
}
