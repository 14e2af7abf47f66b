package document

import (
	"github.com/mtsarev06/es-orm/internal/domain/field"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
)

// Envelope wire keys.
const (
	keyValue      = "value"
	keyFlag       = "flag"
	keyPrettyName = "pretty_name"
)

// buildSource converts a document into the persisted nested representation:
// each set field becomes {value, pretty_name[, flag]}. Empty fields are
// skipped unless the descriptor carries a default, which is substituted.
func buildSource(doc *domdoc.Document) map[string]any {
	src := make(map[string]any, len(doc.Fields()))
	for _, desc := range doc.Schema().Fields() {
		e, ok := doc.Envelope(desc.Name())
		value := e.Value
		if !ok || field.IsEmpty(value) {
			if field.IsEmpty(desc.Default()) {
				continue
			}
			value = desc.Default()
			e.PrettyName = desc.PrettyName()
		}
		obj := map[string]any{
			keyValue:      desc.Encode(value),
			keyPrettyName: e.PrettyName,
		}
		if e.Flag != "" {
			obj[keyFlag] = e.Flag
		}
		src[desc.Name()] = obj
	}
	return src
}

// parseSource converts a fetched _source back into envelopes. Both the nested
// envelope form and bare scalars are accepted, so documents written outside
// this layer still hydrate. Unknown fields are dropped.
func parseSource(s *schema.Schema, src map[string]any) map[string]domdoc.Envelope {
	fields := make(map[string]domdoc.Envelope, len(src))
	for name, raw := range src {
		desc, ok := s.Field(name)
		if !ok {
			continue
		}
		e := domdoc.Envelope{PrettyName: desc.PrettyName()}
		if obj, ok := raw.(map[string]any); ok {
			e.Value = desc.Decode(obj[keyValue])
			if flag, ok := obj[keyFlag].(string); ok {
				e.Flag = flag
			}
			if pretty, ok := obj[keyPrettyName].(string); ok && pretty != "" {
				e.PrettyName = pretty
			}
		} else {
			e.Value = desc.Decode(raw)
		}
		fields[name] = e
	}
	return fields
}
