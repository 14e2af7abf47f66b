// Package esorm is a schema-first document mapper for Elasticsearch.
//
// Every field value is persisted wrapped in an envelope object
// {value, flag, pretty_name}. Fields declare one of three validation
// levels: strict rejects invalid values locally and maps the field with
// its native engine type; warning accepts invalid values, records a
// diagnostic flag in the envelope and maps the field permissively;
// disabled accepts everything silently with the same permissive mapping.
// Plain reads return bare scalars, so calling code never sees the nested
// representation.
package esorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mtsarev06/es-orm/internal/es"
	indexrepo "github.com/mtsarev06/es-orm/internal/repository/index"
	documentrepo "github.com/mtsarev06/es-orm/internal/repository/document"
	documentuc "github.com/mtsarev06/es-orm/internal/usecase/document"
	indexuc "github.com/mtsarev06/es-orm/internal/usecase/index"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the es-orm SDK entry point. It is safe for concurrent use;
// concurrency semantics are whatever the wrapped engine client guarantees.
type Client struct {
	store  es.Store
	docSvc documentuc.Operations
	idxSvc *indexuc.Service
	logger *zap.Logger
}

// New creates a Client and connects to the engine.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o(cfg)
	}

	store := cfg.store
	if store == nil {
		if len(cfg.addrs) == 0 {
			return nil, errors.New("esorm: engine address required (use WithAddresses)")
		}
		s, err := es.NewClient(es.Config{
			Addrs:     cfg.addrs,
			Username:  cfg.username,
			Password:  cfg.password,
			APIKey:    cfg.apiKey,
			Transport: cfg.transport,
		})
		if err != nil {
			return nil, fmt.Errorf("esorm: %w", err)
		}
		store = s
	}

	if cfg.readinessTimeout > 0 {
		if err := store.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
			return nil, fmt.Errorf("esorm: engine not ready: %w", err)
		}
	}

	return wireClient(store, cfg.logger), nil
}

func wireClient(store es.Store, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	docRepo := documentrepo.New(store)
	idxRepo := indexrepo.New(store)

	return &Client{
		store:  store,
		docSvc: documentuc.NewInstrumented(documentuc.New(docRepo), logger),
		idxSvc: indexuc.New(idxRepo),
		logger: logger,
	}
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Index creates a handle for a dynamic index declared field-by-field.
func (c *Client) Index(name string, fields []Field, opts ...IndexOption) (*Index, error) {
	return newIndex(c, name, fields, opts...)
}
