package weft

import (
	"reflect"
	"strings"
)

// Provider is a lazy handle on a component. Declaring an injection
// site as Provider[T] instead of T defers the lookup until the
// provider is called, which breaks dependency cycles and delays
// expensive construction.
//
// When the site's direct lookup misses, the container synthesizes a
// provider bound to itself; each call performs a fresh lookup with the
// site's criteria.
type Provider[T any] func() (T, error)

var (
	providerPkgPath = reflect.TypeOf((Provider[struct{}])(nil)).PkgPath()
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
)

// isProviderType reports whether t is an instantiation of Provider.
func isProviderType(t reflect.Type) bool {
	return t.Kind() == reflect.Func &&
		t.PkgPath() == providerPkgPath &&
		strings.HasPrefix(t.Name(), "Provider[") &&
		t.NumIn() == 0 &&
		t.NumOut() == 2 &&
		t.Out(1) == errorType
}

// ProviderOf returns a lazy handle on the component matching T and
// criteria in c. The lookup runs on each call, never at construction.
func ProviderOf[T any](c *Container, criteria ...Qualifier) Provider[T] {
	return func() (T, error) {
		return Lookup[T](c, criteria...)
	}
}

// materializeProvider builds a function value of the slot's exact
// Provider[...] instantiation, bound to the container. The deferred
// boundary intentionally starts a fresh creation trace: a cycle broken
// by a provider must not trip the in-flight guard of the creation that
// injected it.
func (c *Container) materializeProvider(p *providerSlot) reflect.Value {
	return reflect.MakeFunc(p.typ, func(_ []reflect.Value) []reflect.Value {
		value := reflect.Zero(p.elem)
		errValue := reflect.Zero(errorType)

		instance, err := c.lookupType(p.elem, p.criteria...)
		if err != nil {
			errValue = reflect.ValueOf(err)
		} else {
			value = reflect.ValueOf(instance)
		}

		return []reflect.Value{value, errValue}
	})
}
