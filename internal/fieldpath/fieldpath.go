// Package fieldpath resolves dot separated field paths against arbitrary
// Go values: maps with string keys, structs and pointers to either.
package fieldpath

import (
	"go/token"
	"reflect"
	"strconv"
	"strings"
)

// Get returns the value found by following path through record.
// Each dot separated segment selects a map key, a struct field (by name,
// case-insensitively, or by the name part of its json tag) or a slice
// element by decimal index.
//
// A literal key containing a dot cannot be addressed; the dot is always
// treated as a separator.
//
// The second return value is false when a segment could not be resolved
// or when a nil pointer, interface or map was met on the way.
func Get(record any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	// Fast path for the common map[string]any record.
	if m, ok := record.(map[string]any); ok && !strings.Contains(path, ".") {
		v, found := m[path]
		return v, found
	}

	val := reflect.ValueOf(record)
	for _, segment := range strings.Split(path, ".") {
		val = indirect(val)
		if !val.IsValid() {
			return nil, false
		}
		next, ok := step(val, segment)
		if !ok {
			return nil, false
		}
		val = next
	}

	val = indirect(val)
	if !val.IsValid() {
		// The path resolved but ended in a nil pointer or nil interface.
		return nil, true
	}
	if !val.CanInterface() {
		return nil, false
	}
	return val.Interface(), true
}

// Value is like Get but drops the found flag.
// Unresolvable paths yield nil.
func Value(record any, path string) any {
	v, _ := Get(record, path)
	return v
}

// Root returns the first segment of path.
func Root(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

func step(val reflect.Value, segment string) (reflect.Value, bool) {
	switch val.Kind() {
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		v := val.MapIndex(reflect.ValueOf(segment).Convert(val.Type().Key()))
		if !v.IsValid() {
			return reflect.Value{}, false
		}
		return v, true

	case reflect.Struct:
		return structField(val, segment)

	case reflect.Slice, reflect.Array:
		index, ok := parseIndex(segment)
		if !ok || index < 0 || index >= val.Len() {
			return reflect.Value{}, false
		}
		return val.Index(index), true
	}
	return reflect.Value{}, false
}

func structField(val reflect.Value, name string) (reflect.Value, bool) {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !token.IsExported(field.Name) {
			continue
		}
		if field.Anonymous {
			embedded := indirect(val.Field(i))
			if embedded.IsValid() && embedded.Kind() == reflect.Struct {
				if v, ok := structField(embedded, name); ok {
					return v, true
				}
			}
			continue
		}
		if strings.EqualFold(field.Name, name) || jsonName(field) == name {
			return val.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// parseIndex accepts plain decimal digits only; signs and values that
// overflow an int are rejected.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// indirect follows pointers and interfaces until it reaches a concrete
// value. It returns the zero reflect.Value for nil.
func indirect(val reflect.Value) reflect.Value {
	for val.IsValid() && (val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface) {
		if val.IsNil() {
			return reflect.Value{}
		}
		val = val.Elem()
	}
	return val
}
