package document

import (
	"context"
	"testing"

	"github.com/mtsarev06/es-orm/internal/domain/field"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
	"github.com/mtsarev06/es-orm/internal/es"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexDocFn  func(ctx context.Context, index, id string, body []byte) (es.IndexResult, error)
	getDocFn    func(ctx context.Context, index, id string) ([]byte, error)
	deleteDocFn func(ctx context.Context, index, id string) error
	docExistsFn func(ctx context.Context, index, id string) (bool, error)
	countFn     func(ctx context.Context, index string) (int, error)
	bulkFn      func(ctx context.Context, index string, items []es.BulkItem) (es.BulkStats, error)
}

func (m *mockStore) IndexDoc(ctx context.Context, index, id string, body []byte) (es.IndexResult, error) {
	if m.indexDocFn != nil {
		return m.indexDocFn(ctx, index, id, body)
	}
	return es.IndexResult{ID: id, Version: 1}, nil
}

func (m *mockStore) GetDoc(ctx context.Context, index, id string) ([]byte, error) {
	if m.getDocFn != nil {
		return m.getDocFn(ctx, index, id)
	}
	return []byte(`{}`), nil
}

func (m *mockStore) DeleteDoc(ctx context.Context, index, id string) error {
	if m.deleteDocFn != nil {
		return m.deleteDocFn(ctx, index, id)
	}
	return nil
}

func (m *mockStore) DocExists(ctx context.Context, index, id string) (bool, error) {
	if m.docExistsFn != nil {
		return m.docExistsFn(ctx, index, id)
	}
	return false, nil
}

func (m *mockStore) Count(ctx context.Context, index string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, index)
	}
	return 0, nil
}

func (m *mockStore) Bulk(ctx context.Context, index string, items []es.BulkItem) (es.BulkStats, error) {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, index, items)
	}
	return es.BulkStats{Indexed: len(items)}, nil
}

func newTestRepo() (*Repo, *mockStore) {
	ms := &mockStore{}
	return New(ms), ms
}

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	title, err := field.New("title", field.Text, field.WithPrettyName("Title"))
	if err != nil {
		t.Fatal(err)
	}
	views, err := field.New("views", field.Integer, field.WithLevel(field.Warning))
	if err != nil {
		t.Fatal(err)
	}
	status, err := field.New("status", field.Choice,
		field.WithChoices("draft", "published"), field.WithDefault("draft"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := schema.New([]field.Descriptor{title, views, status})
	if err != nil {
		t.Fatal(err)
	}
	return s
}
