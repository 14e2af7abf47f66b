package esorm

import (
	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
)

// Document is a dynamic document instance bound to an index's schema.
// Attribute reads return bare scalars; Envelope exposes the full wrapper.
type Document struct {
	inner *domdoc.Document
}

// Set writes one field through the validation policy. Strict-level failures
// return an error wrapping ErrValidation before anything reaches the engine.
func (d *Document) Set(name string, value any) error {
	return d.inner.Set(name, value)
}

// SetAll writes multiple fields from a plain mapping. Fields not named keep
// their current values.
func (d *Document) SetAll(values map[string]any) error {
	return d.inner.SetAll(values)
}

// Value returns the scalar view of a field, nil when unset.
func (d *Document) Value(name string) any {
	return d.inner.Value(name)
}

// Envelope returns the full {value, flag, pretty_name} wrapper of a field.
func (d *Document) Envelope(name string) (Envelope, bool) {
	e, ok := d.inner.Envelope(name)
	return Envelope{Value: e.Value, Flag: e.Flag, PrettyName: e.PrettyName}, ok
}

// Flag returns the diagnostic flag of a field, empty when none.
func (d *Document) Flag(name string) string {
	return d.inner.Flag(name)
}

// Values returns the scalar view of all set fields.
func (d *Document) Values() map[string]any {
	return d.inner.Values()
}

// Meta returns the engine-assigned metadata.
func (d *Document) Meta() Meta {
	m := d.inner.Meta()
	return Meta{ID: m.ID, Index: m.Index, Version: m.Version}
}

// ID returns the engine-assigned document id, empty before the first save.
func (d *Document) ID() string {
	return d.inner.Meta().ID
}

// SetID assigns the document id used on the next save.
func (d *Document) SetID(id string) {
	m := d.inner.Meta()
	m.ID = id
	d.inner.SetMeta(m)
}
