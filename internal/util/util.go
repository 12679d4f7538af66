package util

import (
	"reflect"
)

// IsSlice reports whether value is a slice or an array. Strings and byte
// slices are not considered sequences of values.
func IsSlice(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.([]byte); ok {
		return false
	}
	k := reflect.TypeOf(value).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// AsSlice returns value as a []any. Typed slices are copied element by element.
func AsSlice(value any) ([]any, bool) {
	if s, ok := value.([]any); ok {
		return s, true
	}
	if !IsSlice(value) {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// AsMap returns value as a map[string]any. Maps with other string-keyed value
// types are copied; any other value is rejected.
func AsMap(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if rv.IsNil() {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// IsStruct reports whether value is a struct or a non-nil pointer to one.
func IsStruct(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

// ExistsInSlice reports whether value is one of checkList.
func ExistsInSlice[T comparable](value T, checkList []T) bool {
	for i := 0; i < len(checkList); i++ {
		if checkList[i] == value {
			return true
		}
	}
	return false
}
