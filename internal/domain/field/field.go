package field

import (
	"fmt"
	"strings"
)

// Kind is the semantic type of a field.
type Kind string

// Field kind constants.
const (
	Text     Kind = "text"
	Keyword  Kind = "keyword"
	Integer  Kind = "integer"
	Long     Kind = "long"
	Short    Kind = "short"
	Boolean  Kind = "boolean"
	Float    Kind = "float"
	Double   Kind = "double"
	Date     Kind = "date"
	Wildcard Kind = "wildcard"
	Binary   Kind = "binary"
	Choice   Kind = "choice"
	List     Kind = "list"
	Object   Kind = "object"
)

var kinds = map[Kind]bool{
	Text: true, Keyword: true, Integer: true, Long: true, Short: true,
	Boolean: true, Float: true, Double: true, Date: true,
	Wildcard: true, Binary: true, Choice: true, List: true, Object: true,
}

// IsValid checks if the kind is supported.
func (k Kind) IsValid() bool { return kinds[k] }

// IsScalar reports whether the kind maps to a single engine property.
// Lists map to their element kind and objects to a property tree.
func (k Kind) IsScalar() bool { return k != List && k != Object }

// Level is the validation strictness of a field.
//
// Strict rejects invalid values locally and puts the kind's native type into
// the index mapping. Warning accepts invalid values, records a diagnostic
// flag in the envelope and maps the field permissively. Disabled accepts
// everything silently with the same permissive mapping.
type Level string

// Validation level constants.
const (
	Strict   Level = "strict"
	Warning  Level = "warning"
	Disabled Level = "disabled"
)

// IsValid checks if the level is supported.
func (l Level) IsValid() bool {
	return l == Strict || l == Warning || l == Disabled
}

// Descriptor is an immutable value object describing a document field.
type Descriptor struct {
	name       string
	kind       Kind
	level      Level
	prettyName string
	required   bool
	choices    []string
	elem       Kind   // element kind for list fields
	format     string // date layout override for date fields
	defaultVal any
	extra      map[string]any // extra mapping params merged into the value property
	properties []Descriptor   // sub-fields of an object; empty means dynamic
}

// Option configures a Descriptor at construction time.
type Option func(*Descriptor)

// WithLevel sets the validation level (default strict).
func WithLevel(l Level) Option {
	return func(d *Descriptor) { d.level = l }
}

// WithPrettyName sets the human-readable name (default: the field name).
func WithPrettyName(name string) Option {
	return func(d *Descriptor) { d.prettyName = name }
}

// WithRequired marks the field as required during strict cleaning.
func WithRequired() Option {
	return func(d *Descriptor) { d.required = true }
}

// WithChoices restricts accepted values to the given set (choice kind).
func WithChoices(choices ...string) Option {
	return func(d *Descriptor) { d.choices = choices }
}

// WithElem sets the element kind for list fields (default text).
func WithElem(k Kind) Option {
	return func(d *Descriptor) { d.elem = k }
}

// WithFormat sets the date layout used to parse and render date values.
func WithFormat(layout string) Option {
	return func(d *Descriptor) { d.format = layout }
}

// WithDefault sets a value substituted at serialization when the field is empty.
func WithDefault(v any) Option {
	return func(d *Descriptor) { d.defaultVal = v }
}

// WithExtraMapping merges extra parameters into the value property mapping.
func WithExtraMapping(extra map[string]any) Option {
	return func(d *Descriptor) { d.extra = extra }
}

// WithProperties declares the sub-fields of an object. An object without
// declared properties accepts any keys and maps dynamically.
func WithProperties(props ...Descriptor) Option {
	return func(d *Descriptor) { d.properties = props }
}

// New validates and creates a Descriptor.
// Name must be non-empty, max 255 chars. Choice fields need a non-empty
// choices set; list elements must be scalar kinds.
func New(name string, kind Kind, opts ...Option) (Descriptor, error) {
	d := Descriptor{
		name:       name,
		kind:       kind,
		level:      Strict,
		prettyName: name,
		elem:       Text,
	}
	for _, o := range opts {
		o(&d)
	}

	if name == "" {
		return Descriptor{}, fmt.Errorf("field name is required")
	}
	if len(name) > 255 {
		return Descriptor{}, fmt.Errorf("field name %q too long (max 255)", name)
	}
	if !kind.IsValid() {
		return Descriptor{}, fmt.Errorf("invalid kind %q for field %q", kind, name)
	}
	if !d.level.IsValid() {
		return Descriptor{}, fmt.Errorf("invalid validation level %q for field %q", d.level, name)
	}
	if kind == Choice && len(d.choices) == 0 {
		return Descriptor{}, fmt.Errorf("choice field %q needs at least one allowed value", name)
	}
	if kind == List && !d.elem.IsScalar() {
		return Descriptor{}, fmt.Errorf("list field %q cannot nest %s elements", name, d.elem)
	}
	if kind == List && !d.elem.IsValid() {
		return Descriptor{}, fmt.Errorf("invalid element kind %q for list field %q", d.elem, name)
	}
	if len(d.properties) > 0 && kind != Object {
		return Descriptor{}, fmt.Errorf("field %q declares properties but is not an object", name)
	}
	return d, nil
}

// Reconstruct creates a Descriptor without validation (config/schema hydration).
func Reconstruct(name string, kind Kind, opts ...Option) Descriptor {
	d := Descriptor{
		name:       name,
		kind:       kind,
		level:      Strict,
		prettyName: name,
		elem:       Text,
	}
	for _, o := range opts {
		o(&d)
	}
	return d
}

// Name returns the field name.
func (d Descriptor) Name() string { return d.name }

// Kind returns the field kind.
func (d Descriptor) Kind() Kind { return d.kind }

// Level returns the validation level.
func (d Descriptor) Level() Level { return d.level }

// PrettyName returns the human-readable field name.
func (d Descriptor) PrettyName() string { return d.prettyName }

// Required reports whether an empty value fails strict cleaning.
func (d Descriptor) Required() bool { return d.required }

// Choices returns the allowed values of a choice field.
func (d Descriptor) Choices() []string { return d.choices }

// Elem returns the element kind of a list field.
func (d Descriptor) Elem() Kind { return d.elem }

// Format returns the date layout override, empty for the default layouts.
func (d Descriptor) Format() string { return d.format }

// Default returns the default value, nil if unset.
func (d Descriptor) Default() any { return d.defaultVal }

// ExtraMapping returns extra value-property mapping parameters.
func (d Descriptor) ExtraMapping() map[string]any { return d.extra }

// Properties returns the sub-fields of an object, nil for dynamic objects
// and every other kind.
func (d Descriptor) Properties() []Descriptor { return d.properties }

// Property looks up a declared object sub-field by name.
func (d Descriptor) Property(name string) (Descriptor, bool) {
	for _, p := range d.properties {
		if p.name == name {
			return p, true
		}
	}
	return Descriptor{}, false
}

// String renders the descriptor for diagnostics.
func (d Descriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s, %s", d.name, d.kind, d.level)
	if len(d.choices) > 0 {
		fmt.Fprintf(&b, ", choices=%s", strings.Join(d.choices, "|"))
	}
	if d.kind == List {
		fmt.Fprintf(&b, ", elem=%s", d.elem)
	}
	b.WriteString(")")
	return b.String()
}
