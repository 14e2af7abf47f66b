// Package schema holds the ordered field layout of a document index.
package schema

import (
	"fmt"

	"github.com/mtsarev06/es-orm/internal/domain"
	"github.com/mtsarev06/es-orm/internal/domain/field"
)

// TimestampField is the name of the auto-managed date field added when the
// timestamp option is enabled.
const TimestampField = "timestamp"

// Schema is an immutable, ordered set of field descriptors.
type Schema struct {
	fields    []field.Descriptor
	byName    map[string]int
	timestamp bool
}

// Option configures a Schema at construction time.
type Option func(*Schema)

// WithTimestamp adds an auto-managed strict date field named "timestamp",
// populated at save time when left empty.
func WithTimestamp() Option {
	return func(s *Schema) { s.timestamp = true }
}

// New validates and creates a Schema. Field names must be unique; the
// timestamp option reserves the "timestamp" name.
func New(fields []field.Descriptor, opts ...Option) (*Schema, error) {
	s := &Schema{}
	for _, o := range opts {
		o(s)
	}

	if len(fields) == 0 && !s.timestamp {
		return nil, fmt.Errorf("%w: schema needs at least one field", domain.ErrInvalidSchema)
	}

	if s.timestamp {
		ts, err := field.New(TimestampField, field.Date)
		if err != nil {
			return nil, err
		}
		fields = append(fields[:len(fields):len(fields)], ts)
	}

	s.fields = fields
	s.byName = make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := s.byName[f.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate field name %q", domain.ErrInvalidSchema, f.Name())
		}
		s.byName[f.Name()] = i
	}
	return s, nil
}

// Fields returns the descriptors in declaration order.
func (s *Schema) Fields() []field.Descriptor { return s.fields }

// Field looks up a descriptor by name.
func (s *Schema) Field(name string) (field.Descriptor, bool) {
	i, ok := s.byName[name]
	if !ok {
		return field.Descriptor{}, false
	}
	return s.fields[i], true
}

// Has reports whether the schema declares the field.
func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Timestamp reports whether the auto-managed timestamp field is enabled.
func (s *Schema) Timestamp() bool { return s.timestamp }

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.fields) }
