// Package document implements the value-envelope document model.
//
// Every field write runs through the schema's validation policy and lands in
// an Envelope; plain reads return only the scalar value, so calling code
// stays unaware of the nested representation persisted to the engine.
package document

import (
	"fmt"

	"github.com/mtsarev06/es-orm/internal/domain"
	"github.com/mtsarev06/es-orm/internal/domain/field"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
)

// Envelope is the per-field wrapper persisted to the engine.
// Flag is populated only under the warning level when validation fails.
type Envelope struct {
	Value      any
	Flag       string
	PrettyName string
}

// Meta holds engine-assigned document metadata.
type Meta struct {
	ID      string
	Index   string
	Version int64
}

// Document is a mutable instance of a schema: field name → envelope plus
// engine metadata.
type Document struct {
	schema *schema.Schema
	fields map[string]Envelope
	meta   Meta
}

// New creates an empty document for the given schema.
func New(s *schema.Schema) *Document {
	return &Document{
		schema: s,
		fields: make(map[string]Envelope, s.Len()),
	}
}

// Reconstruct creates a document from already-validated envelopes
// (storage hydration).
func Reconstruct(s *schema.Schema, fields map[string]Envelope, meta Meta) *Document {
	if fields == nil {
		fields = make(map[string]Envelope, s.Len())
	}
	return &Document{schema: s, fields: fields, meta: meta}
}

// Schema returns the document's schema.
func (d *Document) Schema() *schema.Schema { return d.schema }

// Meta returns the engine metadata.
func (d *Document) Meta() Meta { return d.meta }

// SetMeta replaces the engine metadata.
func (d *Document) SetMeta(m Meta) { d.meta = m }

// Set writes one field through the validation policy.
// Unknown fields are rejected; strict-level failures return a
// *domain.ValidationError before anything reaches the engine.
func (d *Document) Set(name string, raw any) error {
	desc, ok := d.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, name)
	}
	value, flag, err := desc.Validate(raw)
	if err != nil {
		return domain.NewValidationError(name, err.Error())
	}
	d.fields[name] = Envelope{
		Value:      value,
		Flag:       flag,
		PrettyName: desc.PrettyName(),
	}
	return nil
}

// SetAll writes multiple fields from a plain mapping, each through the same
// validation path as Set. Fields not named keep their current values.
func (d *Document) SetAll(values map[string]any) error {
	for name, raw := range values {
		if err := d.Set(name, raw); err != nil {
			return err
		}
	}
	return nil
}

// Value returns the scalar view of a field, nil when unset.
func (d *Document) Value(name string) any {
	return d.fields[name].Value
}

// Envelope returns the full envelope of a field.
func (d *Document) Envelope(name string) (Envelope, bool) {
	e, ok := d.fields[name]
	return e, ok
}

// Flag returns the diagnostic flag of a field, empty when none.
func (d *Document) Flag(name string) string {
	return d.fields[name].Flag
}

// Fields returns the envelopes of all set fields.
func (d *Document) Fields() map[string]Envelope { return d.fields }

// Values returns the scalar view of all set fields.
func (d *Document) Values() map[string]any {
	out := make(map[string]any, len(d.fields))
	for name, e := range d.fields {
		out[name] = e.Value
	}
	return out
}

// Clean re-validates every field against its descriptor at the strict level
// for required-ness: required fields must hold a non-empty value. Per-field
// level semantics already applied at write time are not revisited.
func (d *Document) Clean() error {
	for _, desc := range d.schema.Fields() {
		e, ok := d.fields[desc.Name()]
		if !ok || field.IsEmpty(e.Value) {
			if desc.Required() {
				return domain.NewValidationError(desc.Name(), "a value is required but none was set")
			}
			continue
		}
	}
	return nil
}
