package document

import (
	"context"
	"testing"

	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
	"github.com/mtsarev06/es-orm/internal/domain/field"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
	"github.com/mtsarev06/es-orm/internal/repository/document"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	saveFn     func(ctx context.Context, index string, doc *domdoc.Document) (domdoc.Meta, error)
	getFn      func(ctx context.Context, index string, s *schema.Schema, id string) (*domdoc.Document, error)
	deleteFn   func(ctx context.Context, index, id string) error
	existsFn   func(ctx context.Context, index, id string) (bool, error)
	countFn    func(ctx context.Context, index string) (int, error)
	bulkSaveFn func(ctx context.Context, index string, docs []*domdoc.Document) ([]document.Outcome, error)
}

func (m *mockRepo) Save(ctx context.Context, index string, doc *domdoc.Document) (domdoc.Meta, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, index, doc)
	}
	return domdoc.Meta{ID: "gen-1", Index: index, Version: 1}, nil
}

func (m *mockRepo) Get(
	ctx context.Context, index string, s *schema.Schema, id string,
) (*domdoc.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, index, s, id)
	}
	return domdoc.New(s), nil
}

func (m *mockRepo) Delete(ctx context.Context, index, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, index, id)
	}
	return nil
}

func (m *mockRepo) Exists(ctx context.Context, index, id string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, index, id)
	}
	return false, nil
}

func (m *mockRepo) Count(ctx context.Context, index string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, index)
	}
	return 0, nil
}

func (m *mockRepo) BulkSave(
	ctx context.Context, index string, docs []*domdoc.Document,
) ([]document.Outcome, error) {
	if m.bulkSaveFn != nil {
		return m.bulkSaveFn(ctx, index, docs)
	}
	outcomes := make([]document.Outcome, len(docs))
	for i, d := range docs {
		outcomes[i] = document.Outcome{ID: d.Meta().ID, OK: true}
	}
	return outcomes, nil
}

func newTestService() (*Service, *mockRepo) {
	mr := &mockRepo{}
	return New(mr), mr
}

func testSchema(t *testing.T, opts ...schema.Option) *schema.Schema {
	t.Helper()
	title, err := field.New("title", field.Text, field.WithRequired())
	if err != nil {
		t.Fatal(err)
	}
	views, err := field.New("views", field.Integer, field.WithLevel(field.Warning))
	if err != nil {
		t.Fatal(err)
	}
	s, err := schema.New([]field.Descriptor{title, views}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
