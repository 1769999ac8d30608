package validation

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Stringify converts any value into the string form used by length and
// pattern checks. It is total: nil (and nil pointers) become "", booleans and
// numbers use their canonical decimal spelling, Stringers and errors use their
// own text. Slices and arrays join their elements with commas, an empty map is
// "", and anything else falls back to fmt.Sprint.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		if isNilPointer(value) {
			return ""
		}
		return v.String()
	case error:
		if isNilPointer(value) {
			return ""
		}
		return v.Error()
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.CanInterface() {
		inner := rv.Interface()
		if reflect.TypeOf(inner) != reflect.TypeOf(value) {
			return Stringify(inner)
		}
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = Stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Map:
		if rv.Len() == 0 {
			return ""
		}
	}
	return fmt.Sprint(value)
}

// IsEmpty reports whether value counts as missing for a required check: nil,
// a nil pointer, an empty slice or map, or a value whose string form is blank.
func IsEmpty(value any) bool {
	return strings.TrimSpace(Stringify(value)) == ""
}

// isAbsent reports whether a non-required field should skip the remaining
// checks. Whitespace-only strings are present and still checked.
func isAbsent(value any) bool {
	return Stringify(value) == ""
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

func isNilPointer(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
