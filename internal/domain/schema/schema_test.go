package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/mtsarev06/es-orm/internal/domain"
	"github.com/mtsarev06/es-orm/internal/domain/field"
)

func mustField(t *testing.T, name string, kind field.Kind, opts ...field.Option) field.Descriptor {
	t.Helper()
	d, err := field.New(name, kind, opts...)
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	return d
}

func TestNew_OrderPreserved(t *testing.T) {
	s, err := New([]field.Descriptor{
		mustField(t, "title", field.Text),
		mustField(t, "views", field.Integer),
		mustField(t, "created", field.Date),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := make([]string, 0, s.Len())
	for _, f := range s.Fields() {
		names = append(names, f.Name())
	}
	if strings.Join(names, ",") != "title,views,created" {
		t.Errorf("declaration order lost: %v", names)
	}
}

func TestNew_Empty(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestNew_DuplicateName(t *testing.T) {
	_, err := New([]field.Descriptor{
		mustField(t, "title", field.Text),
		mustField(t, "title", field.Keyword),
	})
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestNew_Timestamp(t *testing.T) {
	s, err := New([]field.Descriptor{mustField(t, "title", field.Text)}, WithTimestamp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Timestamp() {
		t.Fatal("expected timestamp enabled")
	}
	ts, ok := s.Field(TimestampField)
	if !ok {
		t.Fatal("expected timestamp field in the schema")
	}
	if ts.Kind() != field.Date || ts.Level() != field.Strict {
		t.Errorf("timestamp must be a strict date field, got %s/%s", ts.Kind(), ts.Level())
	}
}

func TestNew_TimestampNameCollision(t *testing.T) {
	_, err := New([]field.Descriptor{mustField(t, TimestampField, field.Text)}, WithTimestamp())
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema on reserved name, got %v", err)
	}
}

func TestField_Lookup(t *testing.T) {
	s, err := New([]field.Descriptor{mustField(t, "title", field.Text)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Has("title") {
		t.Error("expected Has(title)")
	}
	if s.Has("missing") {
		t.Error("unexpected Has(missing)")
	}
	if _, ok := s.Field("missing"); ok {
		t.Error("lookup of a missing field must fail")
	}
}
