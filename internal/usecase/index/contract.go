package index

import (
	"context"

	"github.com/mtsarev06/es-orm/internal/domain/schema"
)

// Repository is the persistence contract for index management.
type Repository interface {
	Ensure(ctx context.Context, name string, s *schema.Schema) error
	Exists(ctx context.Context, name string) (bool, error)
	Refresh(ctx context.Context, name string) error
}
