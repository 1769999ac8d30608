package form

import "reflect"

// Values maps field names to their current values.
type Values map[string]any

// Errors maps field names to their ordered error messages. A missing key
// means the field is currently valid.
type Errors map[string][]string

// First returns the first message recorded for field.
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Has reports whether any field carries an error.
func (e Errors) Has() bool { return len(e) > 0 }

// State is an immutable snapshot of a Controller. Maps are deep copies and
// may be modified by the caller.
type State struct {
	Values       Values
	Errors       Errors
	IsSubmitting bool
}

func cloneValues(src Values) Values {
	out := make(Values, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func cloneErrors(src Errors) Errors {
	out := make(Errors, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case Values:
		return cloneValues(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	case nil:
		return nil
	}
	return deepCopyValue(reflect.ValueOf(value)).Interface()
}

// deepCopyValue copies slices, arrays, maps and pointers of any element type.
// Struct values are copied as a whole without descending into their fields.
func deepCopyValue(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		clone := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			clone.Index(i).Set(deepCopyValue(rv.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			clone.Index(i).Set(deepCopyValue(rv.Index(i)))
		}
		return clone
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		clone := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), deepCopyValue(iter.Value()))
		}
		return clone
	case reflect.Pointer:
		if rv.IsNil() {
			return rv
		}
		clone := reflect.New(rv.Type().Elem())
		clone.Elem().Set(deepCopyValue(rv.Elem()))
		return clone
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		inner := deepCopyValue(rv.Elem())
		clone := reflect.New(rv.Type()).Elem()
		clone.Set(inner)
		return clone
	default:
		return rv
	}
}

func valuesEqual(a, b Values) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}
