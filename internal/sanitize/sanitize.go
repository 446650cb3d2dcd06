// Package sanitize normalizes analysis payloads into JSON-safe values
// before they reach an encoder or a presentation layer.
package sanitize

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Clean converts v into a tree of JSON-serializable primitives: maps
// with string keys, slices, strings, bools, ints and floats. NaN and
// infinite values become 0.0 so encoders never fail on them. Unknown
// types are stringified. Cleaning an already clean tree is a no-op.
func Clean(v any) any {
	return cleanValue(reflect.ValueOf(v))
}

func cleanValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return cleanValue(rv.Elem())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0.0
		}
		return f
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint())
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = cleanValue(rv.Index(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = cleanValue(iter.Value())
		}
		return out
	case reflect.Struct:
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return s.String()
		}
		return cleanStruct(rv)
	default:
		return fmt.Sprint(rv.Interface())
	}
}

// cleanStruct renders a struct as a map keyed by its json tags, so the
// cleaned tree has the same shape encoding/json would have produced
func cleanStruct(rv reflect.Value) any {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		out[name] = cleanValue(rv.Field(i))
	}
	return out
}
