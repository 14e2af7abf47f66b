package index

import (
	"context"
	"testing"

	"github.com/mtsarev06/es-orm/internal/domain/field"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn func(ctx context.Context, name string, body []byte) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	putMappingFn  func(ctx context.Context, name string, body []byte) error
	refreshFn     func(ctx context.Context, name string) error
}

func (m *mockStore) CreateIndex(ctx context.Context, name string, body []byte) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, name, body)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) PutMapping(ctx context.Context, name string, body []byte) error {
	if m.putMappingFn != nil {
		return m.putMappingFn(ctx, name, body)
	}
	return nil
}

func (m *mockStore) Refresh(ctx context.Context, name string) error {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, name)
	}
	return nil
}

func newTestRepo() (*Repo, *mockStore) {
	ms := &mockStore{}
	return New(ms), ms
}

func testSchema(t *testing.T, fields ...field.Descriptor) *schema.Schema {
	t.Helper()
	if len(fields) == 0 {
		f, err := field.New("title", field.Text)
		if err != nil {
			t.Fatal(err)
		}
		fields = []field.Descriptor{f}
	}
	s, err := schema.New(fields)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
