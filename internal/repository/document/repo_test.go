package document

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mtsarev06/es-orm/internal/domain"
	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
	"github.com/mtsarev06/es-orm/internal/es"
)

// --- Save ---

func TestSave_HappyPath(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()
	doc := domdoc.New(testSchema(t))
	if err := doc.Set("title", "hello"); err != nil {
		t.Fatal(err)
	}

	ms.indexDocFn = func(_ context.Context, index, id string, body []byte) (es.IndexResult, error) {
		if index != "articles" {
			t.Errorf("unexpected index: %s", index)
		}
		if id != "" {
			t.Errorf("expected no client id, got %s", id)
		}
		var src map[string]any
		if err := json.Unmarshal(body, &src); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if _, ok := src["title"]; !ok {
			t.Error("expected title in body")
		}
		return es.IndexResult{ID: "gen-1", Version: 1}, nil
	}

	meta, err := repo.Save(ctx, "articles", doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.ID != "gen-1" || meta.Index != "articles" || meta.Version != 1 {
		t.Errorf("unexpected meta: %+v", meta)
	}
}

func TestSave_IndexMissing(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()
	doc := domdoc.New(testSchema(t))

	ms.indexDocFn = func(_ context.Context, _, _ string, _ []byte) (es.IndexResult, error) {
		return es.IndexResult{}, es.ErrIndexNotFound
	}

	_, err := repo.Save(ctx, "missing", doc)
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

// --- Get ---

func TestGet_HappyPath(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()
	s := testSchema(t)

	ms.getDocFn = func(_ context.Context, _, id string) ([]byte, error) {
		if id != "doc-1" {
			t.Errorf("unexpected id: %s", id)
		}
		return []byte(`{"title":{"value":"hello","pretty_name":"Title"}}`), nil
	}

	doc, err := repo.Get(ctx, "articles", s, "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Value("title") != "hello" {
		t.Errorf("unexpected value: %v", doc.Value("title"))
	}
	if doc.Meta().ID != "doc-1" {
		t.Errorf("unexpected meta: %+v", doc.Meta())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()

	ms.getDocFn = func(_ context.Context, _, _ string) ([]byte, error) {
		return nil, es.ErrDocNotFound
	}

	_, err := repo.Get(ctx, "articles", testSchema(t), "gone")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

// --- Delete ---

func TestDelete_NotFound(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()

	ms.deleteDocFn = func(_ context.Context, _, _ string) error {
		return es.ErrDocNotFound
	}

	err := repo.Delete(ctx, "articles", "gone")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

// --- BulkSave ---

func TestBulkSave_AssignsIDs(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()
	s := testSchema(t)

	docs := make([]*domdoc.Document, 2)
	for i := range docs {
		docs[i] = domdoc.New(s)
		if err := docs[i].Set("title", "hello"); err != nil {
			t.Fatal(err)
		}
	}
	docs[1].SetMeta(domdoc.Meta{ID: "fixed"})

	ms.bulkFn = func(_ context.Context, _ string, items []es.BulkItem) (es.BulkStats, error) {
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].ID == "" {
			t.Error("expected client-assigned id for the first item")
		}
		if items[1].ID != "fixed" {
			t.Errorf("expected existing id preserved, got %s", items[1].ID)
		}
		return es.BulkStats{Indexed: 2}, nil
	}

	outcomes, err := repo.BulkSave(ctx, "articles", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, o := range outcomes {
		if !o.OK || o.Err != nil {
			t.Errorf("outcome %d: %+v", i, o)
		}
	}
}

func TestBulkSave_PartialFailure(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()
	s := testSchema(t)

	docs := make([]*domdoc.Document, 2)
	for i := range docs {
		docs[i] = domdoc.New(s)
	}
	docs[0].SetMeta(domdoc.Meta{ID: "a"})
	docs[1].SetMeta(domdoc.Meta{ID: "b"})

	ms.bulkFn = func(_ context.Context, _ string, _ []es.BulkItem) (es.BulkStats, error) {
		return es.BulkStats{
			Indexed: 1,
			Failed:  1,
			Errors:  []es.BulkError{{ID: "b", Reason: "mapper_parsing_exception"}},
		}, nil
	}

	outcomes, err := repo.BulkSave(ctx, "articles", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcomes[0].OK {
		t.Errorf("expected first outcome ok: %+v", outcomes[0])
	}
	if outcomes[1].OK || outcomes[1].Err == nil {
		t.Errorf("expected second outcome failed: %+v", outcomes[1])
	}
}
