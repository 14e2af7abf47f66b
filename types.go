package esorm

import (
	"fmt"

	"github.com/mtsarev06/es-orm/internal/domain/field"
)

// Level is the validation strictness of a field.
type Level string

// Validation level constants.
const (
	LevelStrict   Level = "strict"
	LevelWarning  Level = "warning"
	LevelDisabled Level = "disabled"
)

// Kind is the semantic type of a field.
type Kind string

// Field kind constants.
const (
	KindText     Kind = "text"
	KindKeyword  Kind = "keyword"
	KindInteger  Kind = "integer"
	KindLong     Kind = "long"
	KindShort    Kind = "short"
	KindBoolean  Kind = "boolean"
	KindFloat    Kind = "float"
	KindDouble   Kind = "double"
	KindDate     Kind = "date"
	KindWildcard Kind = "wildcard"
	KindBinary   Kind = "binary"
	KindChoice   Kind = "choice"
	KindList     Kind = "list"
	KindObject   Kind = "object"
)

// Field declares a document field for a dynamic index.
type Field struct {
	Name       string
	Kind       Kind
	Level      Level // default strict
	PrettyName string
	Required   bool
	Choices    []string       // choice kind
	Elem       Kind           // list kind, default text
	Format     string         // date layout override
	Default    any            // substituted at save time when the value is empty
	Extra      map[string]any // extra value-property mapping parameters
	Properties []Field        // object kind; empty means a dynamic object
}

// descriptor converts a public field declaration into the domain value object.
func (f Field) descriptor() (field.Descriptor, error) {
	kind := field.Kind(f.Kind)
	if f.Kind == "" {
		kind = field.Text
	}

	opts := []field.Option{}
	if f.Level != "" {
		opts = append(opts, field.WithLevel(field.Level(f.Level)))
	}
	if f.PrettyName != "" {
		opts = append(opts, field.WithPrettyName(f.PrettyName))
	}
	if f.Required {
		opts = append(opts, field.WithRequired())
	}
	if len(f.Choices) > 0 {
		opts = append(opts, field.WithChoices(f.Choices...))
	}
	if f.Elem != "" {
		opts = append(opts, field.WithElem(field.Kind(f.Elem)))
	}
	if f.Format != "" {
		opts = append(opts, field.WithFormat(f.Format))
	}
	if f.Default != nil {
		opts = append(opts, field.WithDefault(f.Default))
	}
	if len(f.Extra) > 0 {
		opts = append(opts, field.WithExtraMapping(f.Extra))
	}
	if len(f.Properties) > 0 {
		props := make([]field.Descriptor, 0, len(f.Properties))
		for _, p := range f.Properties {
			desc, err := p.descriptor()
			if err != nil {
				return field.Descriptor{}, fmt.Errorf("property of %q: %w", f.Name, err)
			}
			props = append(props, desc)
		}
		opts = append(opts, field.WithProperties(props...))
	}
	return field.New(f.Name, kind, opts...)
}

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

// BulkResult is the outcome of one document in a bulk save.
type BulkResult struct {
	ID  string
	OK  bool
	Err error
}
