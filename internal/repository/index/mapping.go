package index

import (
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/mtsarev06/es-orm/internal/domain/field"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
)

const keywordIgnoreAbove = 256

// BuildMapping computes the engine mapping for a schema. Every field becomes
// a nested object {value, pretty_name, flag}; the value property carries the
// kind's native type under strict and a permissive text type otherwise.
func BuildMapping(s *schema.Schema) *types.TypeMapping {
	props := make(map[string]types.Property, s.Len())
	for _, desc := range s.Fields() {
		props[desc.Name()] = types.ObjectProperty{
			Properties: map[string]types.Property{
				"value":       valueProperty(desc),
				"pretty_name": textWithKeyword(),
				"flag":        textWithKeyword(),
			},
		}
	}
	return &types.TypeMapping{Properties: props}
}

// CreateBody renders the index-creation request body.
func CreateBody(s *schema.Schema) ([]byte, error) {
	body := struct {
		Mappings *types.TypeMapping `json:"mappings"`
	}{Mappings: BuildMapping(s)}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal mappings: %w", err)
	}
	return data, nil
}

// MappingBody renders the put-mapping request body.
func MappingBody(s *schema.Schema) ([]byte, error) {
	data, err := json.Marshal(BuildMapping(s))
	if err != nil {
		return nil, fmt.Errorf("marshal mappings: %w", err)
	}
	return data, nil
}

// valueProperty picks the engine type of the value sub-property.
func valueProperty(desc field.Descriptor) types.Property {
	// Objects keep their structural mapping at every level; a text mapping
	// cannot hold nested properties. Lenient levels apply per sub-field.
	if desc.Kind() == field.Object {
		return withExtra(objectProperty(desc), desc.ExtraMapping())
	}
	// Anything below strict persists through a permissive text mapping, so
	// invalid values never trigger engine-side mapping conflicts.
	if desc.Level() != field.Strict {
		return withExtra(textWithKeyword(), desc.ExtraMapping())
	}
	return withExtra(kindProperty(effectiveKind(desc), desc.Format()), desc.ExtraMapping())
}

// objectProperty maps declared sub-fields recursively; an object without
// declared properties relies on the engine's dynamic mapping.
func objectProperty(desc field.Descriptor) types.Property {
	subs := desc.Properties()
	if len(subs) == 0 {
		return types.ObjectProperty{}
	}
	props := make(map[string]types.Property, len(subs))
	for _, sub := range subs {
		props[sub.Name()] = valueProperty(sub)
	}
	return types.ObjectProperty{Properties: props}
}

// effectiveKind resolves indirect kinds: a choice maps like text, a list like
// its element kind (the engine stores arrays without a dedicated type).
func effectiveKind(desc field.Descriptor) field.Kind {
	switch desc.Kind() {
	case field.Choice:
		return field.Text
	case field.List:
		return desc.Elem()
	default:
		return desc.Kind()
	}
}

func kindProperty(k field.Kind, format string) types.Property {
	switch k {
	case field.Keyword:
		return types.KeywordProperty{IgnoreAbove: ptr(keywordIgnoreAbove)}
	case field.Integer:
		return types.IntegerNumberProperty{}
	case field.Long:
		return types.LongNumberProperty{}
	case field.Short:
		return types.ShortNumberProperty{}
	case field.Boolean:
		return types.BooleanProperty{}
	case field.Float:
		return types.FloatNumberProperty{}
	case field.Double:
		return types.DoubleNumberProperty{}
	case field.Date:
		p := types.DateProperty{}
		if format != "" {
			p.Format = ptr(format)
		}
		return p
	case field.Wildcard:
		return types.WildcardProperty{}
	case field.Binary:
		return types.BinaryProperty{}
	default:
		return textWithKeyword()
	}
}

func textWithKeyword() types.Property {
	return types.TextProperty{
		Fields: map[string]types.Property{
			"keyword": types.KeywordProperty{IgnoreAbove: ptr(keywordIgnoreAbove)},
		},
	}
}

// withExtra merges extra mapping parameters into a property by flattening it
// into a plain map. Returns the property untouched when there are no extras.
func withExtra(p types.Property, extra map[string]any) types.Property {
	if len(extra) == 0 {
		return p
	}
	data, err := json.Marshal(p)
	if err != nil {
		return p
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return p
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func ptr[T any](v T) *T { return &v }
