package esorm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mtsarev06/es-orm/internal/es"
)

func TestNew_RequiresAddress(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error without an address")
	}
	if !strings.Contains(err.Error(), "WithAddresses") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestClientIndex_ValidatesFields(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Index("articles", []Field{{Name: "status", Kind: KindChoice}})
	if err == nil {
		t.Fatal("expected error for a choice field without choices")
	}

	_, err = c.Index("", []Field{{Name: "title"}})
	if err == nil {
		t.Fatal("expected error for an empty index name")
	}
}

func TestIndex_SaveGetRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	idx, err := c.Index("articles", []Field{
		{Name: "title", Kind: KindText, Required: true, PrettyName: "Title"},
		{Name: "views", Kind: KindInteger, Level: LevelWarning},
	})
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if err := idx.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	doc, err := idx.NewDocumentFrom(map[string]any{"title": "hello", "views": "lots"})
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if err := idx.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if doc.ID() == "" {
		t.Fatal("expected engine-assigned id")
	}

	got, err := idx.Get(ctx, doc.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Value("title") != "hello" {
		t.Errorf("unexpected title: %v", got.Value("title"))
	}
	env, _ := got.Envelope("views")
	if env.Value != "lots" || env.Flag == "" {
		t.Errorf("expected flagged raw value hydrated, got %+v", env)
	}
	if env.PrettyName == "" {
		t.Error("expected pretty name hydrated")
	}
}

func TestIndex_MixedLevelsRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	idx, err := c.Index("articles", []Field{
		{Name: "int_value", Kind: KindInteger},
		{Name: "text_value", Kind: KindText, Level: LevelWarning},
		{Name: "choices_value", Kind: KindChoice, Level: LevelDisabled, Choices: []string{"first option", "second option"}},
	})
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if err := idx.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	doc, err := idx.NewDocumentFrom(map[string]any{
		"int_value":     521,
		"text_value":    "Something important",
		"choices_value": "first option",
	})
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if err := idx.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := idx.Get(ctx, doc.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Value("int_value") != int64(521) {
		t.Errorf("unexpected int: %T %v", got.Value("int_value"), got.Value("int_value"))
	}
	if got.Value("text_value") != "Something important" {
		t.Errorf("unexpected text: %v", got.Value("text_value"))
	}
	if got.Value("choices_value") != "first option" {
		t.Errorf("unexpected choice: %v", got.Value("choices_value"))
	}
	if flag := got.Flag("text_value"); flag != "" {
		t.Errorf("valid value must carry no flag, got %q", flag)
	}
}

func TestIndex_StrictRejectionIsLocal(t *testing.T) {
	c, fs := newTestClient(t)

	idx, err := c.Index("articles", []Field{{Name: "views", Kind: KindInteger}})
	if err != nil {
		t.Fatal(err)
	}

	fs.indexDocFn = func(context.Context, string, string, []byte) (es.IndexResult, error) {
		t.Error("rejected document must never reach the engine")
		return es.IndexResult{}, nil
	}

	_, err = idx.NewDocumentFrom(map[string]any{"views": "NaN"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIndex_Delete(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	idx, err := c.Index("articles", []Field{{Name: "title"}})
	if err != nil {
		t.Fatal(err)
	}
	doc := idx.NewDocument()
	if err := doc.Set("title", "bye"); err != nil {
		t.Fatal(err)
	}
	if err := idx.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}

	if err := idx.Delete(ctx, doc.ID()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := idx.Get(ctx, doc.ID()); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestIndex_SaveAll(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	idx, err := c.Index("articles", []Field{{Name: "title", Required: true}})
	if err != nil {
		t.Fatal(err)
	}

	good := idx.NewDocument()
	if err := good.Set("title", "ok"); err != nil {
		t.Fatal(err)
	}
	bad := idx.NewDocument() // missing required title

	results, err := idx.SaveAll(ctx, []*Document{good, bad})
	if err != nil {
		t.Fatalf("save all: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].OK {
		t.Errorf("expected first result ok: %+v", results[0])
	}
	if results[1].OK || results[1].Err == nil {
		t.Errorf("expected second result failed: %+v", results[1])
	}
}

func TestConnections_Registry(t *testing.T) {
	c, _ := newTestClient(t)

	Configure("analytics", c)
	got, err := GetConnection("analytics")
	if err != nil || got != c {
		t.Fatalf("unexpected lookup result: %v %v", got, err)
	}

	_, err = GetConnection("missing")
	if !errors.Is(err, ErrNoConnection) {
		t.Fatalf("expected ErrNoConnection, got %v", err)
	}
}
