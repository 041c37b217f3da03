package weft

import (
	"time"

	"github.com/weftlib/weft/internal/reflectx"
)

// Lookup returns the component matching T and the criteria. T is the
// pointer type for built components, the registered type for values,
// or any type the component is exposed under. Exactly one component
// must match.
func Lookup[T any](c *Container, criteria ...Qualifier) (T, error) {
	var zero T
	instance, err := c.lookupType(reflectx.TypeFor[T](), criteria...)
	if err != nil {
		return zero, err
	}
	return instance.(T), nil
}

// MustLookup is Lookup, panicking on error.
func MustLookup[T any](c *Container, criteria ...Qualifier) T {
	instance, err := Lookup[T](c, criteria...)
	if err != nil {
		panic(err)
	}
	return instance
}

// TryLookup is Lookup with miss-tolerant semantics: it reports whether
// a component matched instead of returning an error. Construction
// failures and ambiguity also report false.
func TryLookup[T any](c *Container, criteria ...Qualifier) (T, bool) {
	instance, err := Lookup[T](c, criteria...)
	return instance, err == nil
}

// LookupNamed returns the component matching T under the given name.
func LookupNamed[T any](c *Container, name string) (T, error) {
	return Lookup[T](c, Named(name))
}

// LookupAll returns every component matching T and the criteria, in
// registration order. No match yields an empty slice, not an error.
func LookupAll[T any](c *Container, criteria ...Qualifier) ([]T, error) {
	t := reflectx.TypeFor[T]()
	start := time.Now()

	c.mu.RLock()
	matched := c.matchLocked(t, criteria)
	c.mu.RUnlock()

	out := make([]T, 0, len(matched))
	var err error
	for _, d := range matched {
		var instance any
		if instance, err = c.instanceFor(d, newCreation()); err != nil {
			break
		}
		out = append(out, instance.(T))
	}

	c.notifyLookup(requiredLabel(t, criteria), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Has reports whether at least one component matches T and the
// criteria, without instantiating anything.
func Has[T any](c *Container, criteria ...Qualifier) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matchLocked(reflectx.TypeFor[T](), criteria)) > 0
}

// HasName reports whether a component is registered under name.
func (c *Container) HasName(name string) bool {
	return len(c.candidatesFor(Named(name))) > 0
}

// LookupName returns the component registered under name, whatever its
// type. The lookup consults the binding index, so it follows renames.
func (c *Container) LookupName(name string) (any, error) {
	start := time.Now()
	instance, err := c.lookupName(name)
	c.notifyLookup(Named(name).String(), time.Since(start), err)
	return instance, err
}

func (c *Container) lookupName(name string) (any, error) {
	candidates := c.candidatesFor(Named(name))
	switch len(candidates) {
	case 1:
		return c.instanceFor(candidates[0], newCreation())
	case 0:
		return nil, errComponentNotFound(name)
	default:
		// One name on several types is legal; the caller has to pick a
		// type to disambiguate.
		types := make([]string, len(candidates))
		for i, d := range candidates {
			types[i] = reflectx.TypeKey(d.declared)
		}
		return nil, errAmbiguousComponent(name, types)
	}
}
