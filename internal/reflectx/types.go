package reflectx

import (
	"reflect"
	"sync"
	"unicode"
	"unicode/utf8"
)

// TypeFor returns the reflect.Type that represents the type argument T.
// It matches the behavior of reflect.TypeFor, which requires Go 1.22+.
func TypeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

var typeKeyCache sync.Map

// TypeKey returns a stable human-readable identifier for a type,
// including its package path for named types.
func TypeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if cached, ok := typeKeyCache.Load(t); ok {
		return cached.(string)
	}

	key := buildTypeKey(t)
	typeKeyCache.Store(t, key)
	return key
}

func buildTypeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + buildTypeKey(t.Elem())
	case reflect.Slice:
		return "[]" + buildTypeKey(t.Elem())
	case reflect.Map:
		return "map[" + buildTypeKey(t.Key()) + "]" + buildTypeKey(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildTypeKey(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildTypeKey(t.Elem())
		default:
			return "chan " + buildTypeKey(t.Elem())
		}
	case reflect.Func:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.String()
	}
}

// TypeKeyFromValue returns the type key of a value's dynamic type.
func TypeKeyFromValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	return TypeKey(reflect.TypeOf(v))
}

// LowerFirst lowers the first rune of a name. It is used to derive
// default component names from type names.
func LowerFirst(name string) string {
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// IsNil reports whether a value is nil, including typed nil pointers,
// maps, slices, channels, funcs and interfaces.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
