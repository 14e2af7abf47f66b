package document

import (
	"testing"

	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
)

func TestBuildSource_EnvelopeShape(t *testing.T) {
	s := testSchema(t)
	doc := domdoc.New(s)
	if err := doc.SetAll(map[string]any{"title": "hello", "views": "lots"}); err != nil {
		t.Fatal(err)
	}

	src := buildSource(doc)

	title, ok := src["title"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested object for title, got %T", src["title"])
	}
	if title[keyValue] != "hello" || title[keyPrettyName] != "Title" {
		t.Errorf("unexpected title envelope: %v", title)
	}
	if _, hasFlag := title[keyFlag]; hasFlag {
		t.Error("valid value must not carry a flag")
	}

	views := src["views"].(map[string]any)
	if views[keyValue] != "lots" {
		t.Errorf("raw value must persist under warning, got %v", views[keyValue])
	}
	if views[keyFlag] == "" || views[keyFlag] == nil {
		t.Error("expected flag recorded for invalid warning value")
	}
}

func TestBuildSource_DefaultSubstituted(t *testing.T) {
	s := testSchema(t)
	doc := domdoc.New(s)
	if err := doc.Set("title", "hello"); err != nil {
		t.Fatal(err)
	}

	src := buildSource(doc)

	status, ok := src["status"].(map[string]any)
	if !ok {
		t.Fatal("expected default to materialize the status field")
	}
	if status[keyValue] != "draft" {
		t.Errorf("expected default value, got %v", status[keyValue])
	}
}

func TestBuildSource_EmptySkipped(t *testing.T) {
	s := testSchema(t)
	doc := domdoc.New(s)
	if err := doc.Set("title", "hello"); err != nil {
		t.Fatal(err)
	}

	src := buildSource(doc)

	if _, ok := src["views"]; ok {
		t.Error("unset field without default must be omitted")
	}
}

func TestParseSource_Envelopes(t *testing.T) {
	s := testSchema(t)

	fields := parseSource(s, map[string]any{
		"title": map[string]any{
			keyValue:      "hello",
			keyPrettyName: "Заголовок",
		},
		"views": map[string]any{
			keyValue: "lots",
			keyFlag:  "cannot convert",
		},
	})

	title := fields["title"]
	if title.Value != "hello" || title.PrettyName != "Заголовок" {
		t.Errorf("unexpected title envelope: %+v", title)
	}
	views := fields["views"]
	if views.Flag != "cannot convert" {
		t.Errorf("expected flag hydrated, got %+v", views)
	}
	if views.Value != "lots" {
		t.Errorf("unparseable stored value must hydrate as-is, got %v", views.Value)
	}
}

func TestParseSource_BareScalars(t *testing.T) {
	s := testSchema(t)

	// Documents written outside this layer can hold plain values.
	fields := parseSource(s, map[string]any{
		"title": "plain",
		"views": float64(3),
	})

	if fields["title"].Value != "plain" {
		t.Errorf("unexpected title: %+v", fields["title"])
	}
	if fields["views"].Value != int64(3) {
		t.Errorf("expected coerced views, got %T %v", fields["views"].Value, fields["views"].Value)
	}
	if fields["title"].PrettyName != "Title" {
		t.Errorf("expected descriptor pretty name fallback, got %q", fields["title"].PrettyName)
	}
}

func TestParseSource_UnknownDropped(t *testing.T) {
	s := testSchema(t)

	fields := parseSource(s, map[string]any{"ghost": "boo"})
	if _, ok := fields["ghost"]; ok {
		t.Error("unknown fields must be dropped")
	}
}
