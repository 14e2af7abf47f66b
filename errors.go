package esorm

import "github.com/mtsarev06/es-orm/internal/domain"

// Sentinel errors surfaced by the public API. Engine-level connection and
// mapping errors propagate unchanged from the underlying client.
var (
	ErrIndexNotFound    = domain.ErrIndexNotFound
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	ErrInvalidSchema    = domain.ErrInvalidSchema
	ErrUnknownField     = domain.ErrUnknownField
	ErrValidation       = domain.ErrValidation
	ErrNoConnection     = domain.ErrNoConnection
)
