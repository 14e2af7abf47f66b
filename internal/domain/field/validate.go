package field

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Date layouts tried in order when no explicit format is set.
var defaultDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// IsEmpty reports whether a value counts as unset. Empty values are never
// validated and are never written to the engine.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Struct:
		if t, ok := v.(time.Time); ok {
			return t.IsZero()
		}
	}
	return false
}

// Validate applies the field's validation policy to a raw value.
//
// The accepted value is the coerced native form on success and the raw value
// otherwise. The flag is non-empty only under the warning level when coercion
// or a constraint fails. The error is non-nil only under the strict level.
// Empty values are accepted as nil without validation; the required constraint
// is checked separately during document cleaning.
func (d Descriptor) Validate(raw any) (any, string, error) {
	if IsEmpty(raw) {
		return nil, "", nil
	}
	if d.kind == Object {
		return d.validateObject(raw)
	}
	coerced, err := d.coerce(raw)
	if err == nil {
		return coerced, "", nil
	}
	switch d.level {
	case Warning:
		return raw, err.Error(), nil
	case Disabled:
		return raw, "", nil
	default:
		return raw, "", err
	}
}

// coerce converts raw into the kind's native Go form.
func (d Descriptor) coerce(raw any) (any, error) {
	switch d.kind {
	case Text, Keyword, Wildcard:
		return toString(raw), nil
	case Integer, Long, Short:
		return toInt64(raw)
	case Boolean:
		return toBool(raw)
	case Float, Double:
		return toFloat64(raw)
	case Date:
		return d.toTime(raw)
	case Binary:
		return toBytes(raw), nil
	case Choice:
		return d.checkChoice(raw)
	case List:
		return d.coerceList(raw)
	default:
		return raw, nil
	}
}

// validateObject validates a map value property by property. Declared
// sub-fields apply their own level, so a strict property inside a lenient
// object still rejects and a warning property records its flag on the parent.
// Without declared properties the object is dynamic and keys pass through.
func (d Descriptor) validateObject(raw any) (any, string, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		err := fmt.Errorf("value of type %T is not an object", raw)
		switch d.level {
		case Warning:
			return raw, err.Error(), nil
		case Disabled:
			return raw, "", nil
		default:
			return raw, "", err
		}
	}

	out := make(map[string]any, len(m))
	var flags []string

	for _, sub := range d.properties {
		v, present := m[sub.name]
		if !present {
			continue
		}
		sv, sf, err := sub.Validate(v)
		if err != nil {
			return raw, "", fmt.Errorf("property %q: %w", sub.name, err)
		}
		if sf != "" {
			flags = append(flags, sub.name+": "+sf)
		}
		if sv != nil {
			out[sub.name] = sv
		}
	}

	var unknown []string
	for k := range m {
		if _, declared := d.Property(k); !declared {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		if len(d.properties) == 0 {
			out[k] = m[k]
			continue
		}
		err := fmt.Errorf("unknown property %q", k)
		switch d.level {
		case Warning:
			flags = append(flags, err.Error())
			out[k] = m[k]
		case Disabled:
			out[k] = m[k]
		default:
			return raw, "", err
		}
	}

	return out, strings.Join(flags, "; "), nil
}

func (d Descriptor) checkChoice(raw any) (any, error) {
	s := toString(raw)
	for _, c := range d.choices {
		if s == c {
			return s, nil
		}
	}
	return nil, fmt.Errorf("value %q is not one of the allowed choices", s)
}

func (d Descriptor) coerceList(raw any) (any, error) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("value of type %T is not a list", raw)
	}
	// Elements are always validated strictly, like the rest of the engine
	// treats array values: one bad element poisons the whole field.
	elem := Descriptor{kind: d.elem, level: Strict, format: d.format, choices: d.choices}
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		v, err := elem.coerce(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (d Descriptor) toTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case float64:
		return time.Unix(int64(v), 0).UTC(), nil
	case string:
		if d.format != "" {
			t, err := time.Parse(d.format, v)
			if err != nil {
				return time.Time{}, fmt.Errorf("cannot parse %q with layout %q", v, d.format)
			}
			return t, nil
		}
		for _, layout := range defaultDateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as a date", v)
	default:
		return time.Time{}, fmt.Errorf("cannot convert value of type %T to a date", raw)
	}
}

func toString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(raw)
	}
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return uintToInt64(uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return uintToInt64(v)
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to an integer", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert value of type %T to an integer", raw)
	}
}

func uintToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("cannot convert %d to an integer without overflow", u)
	}
	return int64(u), nil
}

func floatToInt64(f float64) (int64, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("cannot convert %v to an integer without truncation", f)
	}
	return int64(f), nil
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to a number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert value of type %T to a number", raw)
	}
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("cannot convert %q to a boolean", v)
		}
		return b, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
		return false, fmt.Errorf("cannot convert %d to a boolean", v)
	default:
		return false, fmt.Errorf("cannot convert value of type %T to a boolean", raw)
	}
}

func toBytes(raw any) []byte {
	switch v := raw.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return []byte(fmt.Sprint(raw))
	}
}

// Encode renders a validated value into its engine wire form: dates become
// formatted strings, binary becomes base64, list elements are encoded
// recursively. Values that never passed coercion (warning/disabled) pass
// through unchanged.
func (d Descriptor) Encode(v any) any {
	switch d.kind {
	case Date:
		if t, ok := v.(time.Time); ok {
			if d.format != "" {
				return t.Format(d.format)
			}
			return t.Format(time.RFC3339)
		}
	case Binary:
		if b, ok := v.([]byte); ok {
			return base64.StdEncoding.EncodeToString(b)
		}
	case List:
		if items, ok := v.([]any); ok {
			elem := Descriptor{kind: d.elem, format: d.format}
			out := make([]any, len(items))
			for i, item := range items {
				out[i] = elem.Encode(item)
			}
			return out
		}
	case Object:
		if m, ok := v.(map[string]any); ok {
			out := make(map[string]any, len(m))
			for k, item := range m {
				if sub, declared := d.Property(k); declared {
					out[k] = sub.Encode(item)
				} else {
					out[k] = item
				}
			}
			return out
		}
	}
	return v
}

// Decode converts an engine wire value back into the kind's native form.
// Values that cannot be decoded are returned as-is: a permissive mapping can
// hold data the descriptor never accepted locally.
func (d Descriptor) Decode(raw any) any {
	if IsEmpty(raw) {
		return nil
	}
	switch d.kind {
	case Binary:
		if s, ok := raw.(string); ok {
			if b, err := base64.StdEncoding.DecodeString(s); err == nil {
				return b
			}
		}
	case Object:
		if m, ok := raw.(map[string]any); ok {
			out := make(map[string]any, len(m))
			for k, item := range m {
				if sub, declared := d.Property(k); declared {
					out[k] = sub.Decode(item)
				} else {
					out[k] = item
				}
			}
			return out
		}
	}
	if v, err := d.coerce(raw); err == nil {
		return v
	}
	return raw
}
