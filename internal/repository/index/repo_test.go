package index

import (
	"context"
	"errors"
	"testing"

	"github.com/mtsarev06/es-orm/internal/es"
)

func TestEnsure_CreatesMissing(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()

	var created bool
	ms.indexExistsFn = func(_ context.Context, name string) (bool, error) {
		if name != "articles" {
			t.Errorf("unexpected index name: %s", name)
		}
		return false, nil
	}
	ms.createIndexFn = func(_ context.Context, _ string, body []byte) error {
		created = true
		if len(body) == 0 {
			t.Error("expected mapping body")
		}
		return nil
	}
	ms.putMappingFn = func(_ context.Context, _ string, _ []byte) error {
		t.Error("put mapping must not run after successful creation")
		return nil
	}

	if err := repo.Ensure(ctx, "articles", testSchema(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected index creation")
	}
}

func TestEnsure_UpdatesExisting(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()

	var mapped bool
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.createIndexFn = func(_ context.Context, _ string, _ []byte) error {
		t.Error("create must not run for an existing index")
		return nil
	}
	ms.putMappingFn = func(_ context.Context, _ string, body []byte) error {
		mapped = true
		if len(body) == 0 {
			t.Error("expected mapping body")
		}
		return nil
	}

	if err := repo.Ensure(ctx, "articles", testSchema(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mapped {
		t.Error("expected put mapping")
	}
}

func TestEnsure_CreationRace(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()

	var mapped bool
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }
	ms.createIndexFn = func(_ context.Context, _ string, _ []byte) error {
		return es.ErrIndexExists
	}
	ms.putMappingFn = func(_ context.Context, _ string, _ []byte) error {
		mapped = true
		return nil
	}

	if err := repo.Ensure(ctx, "articles", testSchema(t)); err != nil {
		t.Fatalf("race must resolve to the mapping path, got %v", err)
	}
	if !mapped {
		t.Error("expected put mapping after a lost creation race")
	}
}

func TestEnsure_CreateError(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }
	ms.createIndexFn = func(_ context.Context, _ string, _ []byte) error {
		return errors.New("cluster unavailable")
	}

	if err := repo.Ensure(ctx, "articles", testSchema(t)); err == nil {
		t.Fatal("expected error")
	}
}

func TestExists(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	ok, err := repo.Exists(ctx, "articles")
	if err != nil || !ok {
		t.Fatalf("unexpected result: %v %v", ok, err)
	}
}
