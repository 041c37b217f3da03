package weft

import (
	"reflect"

	"github.com/weftlib/weft/internal/reflectx"
)

// Assembly is a reusable bundle of registrations. Entries are queued
// when the assembly is built and run when it is applied, so one
// assembly can wire many containers and assemblies can include each
// other.
type Assembly struct {
	name       string
	entries    []assemblyEntry
	assemblies []*Assembly
}

type assemblyEntry func(c *Container) error

func NewAssembly(name string) *Assembly {
	return &Assembly{name: name}
}

func (a *Assembly) Name() string {
	return a.name
}

// Include nests another assembly. Included assemblies apply before the
// including assembly's own entries.
func (a *Assembly) Include(sub *Assembly) *Assembly {
	a.assemblies = append(a.assemblies, sub)
	return a
}

func (a *Assembly) apply(c *Container) error {
	for _, sub := range a.assemblies {
		if err := sub.apply(c); err != nil {
			return err
		}
	}
	for _, entry := range a.entries {
		if err := entry(c); err != nil {
			return err
		}
	}
	return nil
}

// Apply runs every queued registration of the given assemblies against
// this container.
func (c *Container) Apply(assemblies ...*Assembly) error {
	for _, a := range assemblies {
		if err := a.apply(c); err != nil {
			return errAssemblyFailed(a.name, err)
		}
	}
	return nil
}

// AssemblyRegister queues a component registration. Methods cannot
// carry type parameters, so the typed assembly builders are package
// functions mirroring Register and RegisterValue.
func AssemblyRegister[T any](a *Assembly, opts ...RegisterOption) *Assembly {
	a.entries = append(a.entries, func(c *Container) error {
		_, err := Register[T](c, opts...)
		return err
	})
	return a
}

// AssemblyValue queues a value registration.
func AssemblyValue[T any](a *Assembly, value T, opts ...RegisterOption) *Assembly {
	a.entries = append(a.entries, func(c *Container) error {
		_, err := RegisterValue(c, value, opts...)
		return err
	})
	return a
}

// AssemblyExpose queues an interface exposure for the component of
// type T.
func AssemblyExpose[I, T any](a *Assembly) *Assembly {
	a.entries = append(a.entries, func(c *Container) error {
		declared, err := componentType(reflectx.TypeFor[T]())
		if err != nil {
			return err
		}
		d, err := c.matchOne(reflect.PointerTo(declared), nil)
		if err != nil {
			return err
		}
		return Expose[I](c, d)
	})
	return a
}
