package esorm

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
)

const (
	tagKey       = "esorm"
	prettyTagKey = "pretty"
)

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ reflect.Type // struct type for reconstruction

	idIdx int // struct field carrying the document id, -1 if none

	// Declared fields for index creation, in struct order.
	fields []Field

	// Mapping from struct field index → document field name.
	mapped []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
}

// parseSchema reflects on T and extracts esorm struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("esorm: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1}

	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	if len(meta.fields) == 0 {
		return nil, fmt.Errorf("esorm: no tagged fields in %s", t)
	}
	return meta, nil
}

// applyTag processes a single struct field's esorm tag.
func applyTag(meta *schemaMeta, idx int, f reflect.StructField, tag string) error {
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		return fmt.Errorf("esorm: empty field name on %s", f.Name)
	}

	if len(parts) == 2 && parts[1] == "id" {
		if meta.idIdx != -1 {
			return fmt.Errorf("esorm: duplicate id tag on field %s", f.Name)
		}
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("esorm: id field %s must be a string", f.Name)
		}
		meta.idIdx = idx
		return nil
	}

	decl := Field{Name: name, PrettyName: f.Tag.Get(prettyTagKey)}
	for _, opt := range parts[1:] {
		if err := applyTagOption(&decl, f.Name, opt); err != nil {
			return err
		}
	}
	if decl.Kind == "" {
		kind, elem, err := inferKind(f.Type)
		if err != nil {
			return fmt.Errorf("esorm: field %s: %w", f.Name, err)
		}
		decl.Kind = kind
		if decl.Elem == "" {
			decl.Elem = elem
		}
	}

	meta.fields = append(meta.fields, decl)
	meta.mapped = append(meta.mapped, fieldMapping{structIdx: idx, name: name})
	return nil
}

func applyTagOption(decl *Field, fieldName, opt string) error {
	key, value, hasValue := strings.Cut(opt, "=")
	switch key {
	case "required":
		decl.Required = true
	case "level":
		decl.Level = Level(value)
	case "choices":
		decl.Kind = KindChoice
		decl.Choices = strings.Split(value, "|")
	case "elem":
		decl.Elem = Kind(value)
	case "format":
		decl.Format = value
	default:
		if hasValue {
			return fmt.Errorf("esorm: unknown option %q on field %s", key, fieldName)
		}
		if decl.Kind != "" {
			return fmt.Errorf("esorm: duplicate kind %q on field %s", key, fieldName)
		}
		decl.Kind = Kind(key)
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

// inferKind maps a Go type to a field kind when the tag names none.
func inferKind(t reflect.Type) (Kind, Kind, error) {
	if t == timeType {
		return KindDate, "", nil
	}
	switch t.Kind() {
	case reflect.String:
		return KindText, "", nil
	case reflect.Int, reflect.Int64:
		return KindLong, "", nil
	case reflect.Int32:
		return KindInteger, "", nil
	case reflect.Int16, reflect.Int8:
		return KindShort, "", nil
	case reflect.Bool:
		return KindBoolean, "", nil
	case reflect.Float32:
		return KindFloat, "", nil
	case reflect.Float64:
		return KindDouble, "", nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBinary, "", nil
		}
		elem, _, err := inferKind(t.Elem())
		if err != nil {
			return "", "", err
		}
		return KindList, elem, nil
	case reflect.Map:
		// A string-keyed map becomes a dynamic object.
		if t.Key().Kind() == reflect.String {
			return KindObject, "", nil
		}
		return "", "", fmt.Errorf("cannot infer kind for type %s", t)
	default:
		return "", "", fmt.Errorf("cannot infer kind for type %s", t)
	}
}

// extractID returns the value of the id-tagged struct field, empty when the
// schema declares none.
func (m *schemaMeta) extractID(item any) string {
	if m.idIdx == -1 {
		return ""
	}
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v.Field(m.idIdx).String()
}

// toValues converts a typed struct to a plain field mapping. Only genuinely
// empty values (empty strings, nil slices and maps, zero times) are treated
// as unset; false and numeric zero are real values and always persist.
func (m *schemaMeta) toValues(item any) map[string]any {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	values := make(map[string]any, len(m.mapped))
	for _, fm := range m.mapped {
		fv := v.Field(fm.structIdx)
		if isUnset(fv) {
			continue
		}
		values[fm.name] = fv.Interface()
	}
	return values
}

// isUnset mirrors the emptiness rules of field validation for struct fields.
func isUnset(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.String:
		return fv.Len() == 0
	case reflect.Slice, reflect.Map:
		return fv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return fv.IsNil()
	case reflect.Struct:
		if t, ok := fv.Interface().(time.Time); ok {
			return t.IsZero()
		}
		return false
	default:
		return false
	}
}

// fromDocument converts a validated document back to a typed struct.
func (m *schemaMeta) fromDocument(doc *domdoc.Document) (any, error) {
	v := reflect.New(m.typ).Elem()

	if m.idIdx != -1 {
		v.Field(m.idIdx).SetString(doc.Meta().ID)
	}
	for _, fm := range m.mapped {
		raw := doc.Value(fm.name)
		if raw == nil {
			continue
		}
		if err := assign(v.Field(fm.structIdx), raw); err != nil {
			return nil, fmt.Errorf("esorm: field %s: %w", fm.name, err)
		}
	}
	return v.Interface(), nil
}

// assign stores a validated value into a struct field, converting between
// the widened representation used in envelopes and the declared Go type.
func assign(fv reflect.Value, raw any) error {
	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(rv.Convert(fv.Type()))
		return nil
	}
	if fv.Kind() == reflect.Slice && rv.Kind() == reflect.Slice {
		out := reflect.MakeSlice(fv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			if err := assign(out.Index(i), rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		fv.Set(out)
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", raw, fv.Type())
}
