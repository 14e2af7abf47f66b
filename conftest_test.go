package esorm

import (
	"context"
	"testing"
	"time"

	"github.com/mtsarev06/es-orm/internal/es"
)

// fakeStore is an in-memory es.Store used across the SDK tests.
type fakeStore struct {
	indices map[string]bool
	docs    map[string][]byte
	nextID  int

	indexDocFn func(ctx context.Context, index, id string, body []byte) (es.IndexResult, error)
	getDocFn   func(ctx context.Context, index, id string) ([]byte, error)
	bulkFn     func(ctx context.Context, index string, items []es.BulkItem) (es.BulkStats, error)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		indices: map[string]bool{},
		docs:    map[string][]byte{},
	}
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) WaitForReady(context.Context, time.Duration) error { return nil }

func (f *fakeStore) CreateIndex(_ context.Context, name string, _ []byte) error {
	if f.indices[name] {
		return es.ErrIndexExists
	}
	f.indices[name] = true
	return nil
}

func (f *fakeStore) IndexExists(_ context.Context, name string) (bool, error) {
	return f.indices[name], nil
}

func (f *fakeStore) PutMapping(_ context.Context, name string, _ []byte) error {
	if !f.indices[name] {
		return es.ErrIndexNotFound
	}
	return nil
}

func (f *fakeStore) Refresh(context.Context, string) error { return nil }

func (f *fakeStore) IndexDoc(ctx context.Context, index, id string, body []byte) (es.IndexResult, error) {
	if f.indexDocFn != nil {
		return f.indexDocFn(ctx, index, id, body)
	}
	if id == "" {
		f.nextID++
		id = "fake-" + time.Now().Format("150405") + "-" + string(rune('a'+f.nextID%26))
	}
	f.docs[index+"/"+id] = body
	return es.IndexResult{ID: id, Version: 1}, nil
}

func (f *fakeStore) GetDoc(ctx context.Context, index, id string) ([]byte, error) {
	if f.getDocFn != nil {
		return f.getDocFn(ctx, index, id)
	}
	body, ok := f.docs[index+"/"+id]
	if !ok {
		return nil, es.ErrDocNotFound
	}
	return body, nil
}

func (f *fakeStore) DeleteDoc(_ context.Context, index, id string) error {
	key := index + "/" + id
	if _, ok := f.docs[key]; !ok {
		return es.ErrDocNotFound
	}
	delete(f.docs, key)
	return nil
}

func (f *fakeStore) DocExists(_ context.Context, index, id string) (bool, error) {
	_, ok := f.docs[index+"/"+id]
	return ok, nil
}

func (f *fakeStore) Count(_ context.Context, index string) (int, error) {
	n := 0
	for key := range f.docs {
		if len(key) > len(index) && key[:len(index)] == index && key[len(index)] == '/' {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Bulk(ctx context.Context, index string, items []es.BulkItem) (es.BulkStats, error) {
	if f.bulkFn != nil {
		return f.bulkFn(ctx, index, items)
	}
	for _, item := range items {
		f.docs[index+"/"+item.ID] = item.Body
	}
	return es.BulkStats{Indexed: len(items)}, nil
}

func newTestClient(t *testing.T) (*Client, *fakeStore) {
	t.Helper()
	fs := newFakeStore()
	c, err := New(withStore(fs))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, fs
}
