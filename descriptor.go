package weft

import (
	"reflect"
	"sync"

	"github.com/weftlib/weft/internal/reflectx"
	"github.com/weftlib/weft/internal/scope"
)

// levelSpec carries the injection slots declared by one embedding
// level: the level's type, the field index path reaching it from the
// leaf, and the tagged fields and inject methods the level itself
// declares. Promoted members belong to the level that declared them,
// never to the embedder.
type levelSpec struct {
	path    []int
	typ     reflect.Type
	fields  []slot
	methods []methodSpec
}

// Descriptor is the registration record of a component: its identity
// (name and qualifiers), scope, declared struct type, the types it is
// exposed under, and the injection slots discovered on it.
//
// Slots are immutable after build. Name, qualifiers and scope may be
// changed through the fluent mutators during bootstrap only.
type Descriptor struct {
	name       string
	qualifiers []Qualifier
	scope      scope.Scope
	declared   reflect.Type
	exposed    []reflect.Type

	// instance is the type lookups hand out: *declared for built
	// components, the registered type itself for values.
	instance reflect.Type
	isValue  bool

	ctor      *constructorSpec
	fields    []slot
	methods   []methodSpec
	ancestors []levelSpec

	index    BindingIndex
	createMu sync.Mutex
}

// Name returns the component name, the value of the naming qualifier.
func (d *Descriptor) Name() string {
	return d.name
}

// Qualifiers returns a copy of the descriptor's qualifier set.
func (d *Descriptor) Qualifiers() []Qualifier {
	out := make([]Qualifier, len(d.qualifiers))
	copy(out, d.qualifiers)
	return out
}

// Scope returns the descriptor's scope.
func (d *Descriptor) Scope() Scope {
	return d.scope
}

// Declared returns the component's struct type.
func (d *Descriptor) Declared() reflect.Type {
	return d.declared
}

// Exposed returns a copy of the types the component is matched under.
func (d *Descriptor) Exposed() []reflect.Type {
	out := make([]reflect.Type, len(d.exposed))
	copy(out, d.exposed)
	return out
}

// Named renames the component. Renaming to the current name is a
// complete no-op; otherwise the naming qualifier is replaced and the
// binding index notified. Bindings under the old name go stale and
// stop matching on their next verified lookup.
func (d *Descriptor) Named(name string) *Descriptor {
	current := d.namingQualifier()
	if string(current) == name {
		return d
	}

	for i, q := range d.qualifiers {
		if isNaming(q) {
			d.qualifiers[i] = Named(name)
			break
		}
	}
	d.name = name
	d.notify(Named(name))
	return d
}

// Qualified adds qualifiers to the descriptor. A Named qualifier
// follows the rename rule; any other qualifier is added with set
// semantics and bound in the index.
func (d *Descriptor) Qualified(qs ...Qualifier) *Descriptor {
	for _, q := range qs {
		if n, ok := q.(Named); ok {
			d.Named(string(n))
			continue
		}
		d.addQualifier(q)
	}
	return d
}

// Scoped changes the descriptor's scope.
func (d *Descriptor) Scoped(s Scope) *Descriptor {
	d.scope = s
	return d
}

func (d *Descriptor) addQualifier(q Qualifier) {
	for _, have := range d.qualifiers {
		if qualifierEqual(have, q) {
			return
		}
	}
	d.qualifiers = append(d.qualifiers, q)
	d.notify(q)
}

// hasQualifier reports whether the descriptor currently carries q. The
// binding index uses it to verify candidates, so entries staled by a
// rename stop matching without explicit unbinding.
func (d *Descriptor) hasQualifier(q Qualifier) bool {
	for _, have := range d.qualifiers {
		if qualifierEqual(have, q) {
			return true
		}
	}
	return false
}

// namingQualifier returns the descriptor's Named qualifier. A
// descriptor without one is corrupt configuration, not a lookup miss,
// so the absence panics rather than returning an error.
func (d *Descriptor) namingQualifier() Named {
	for _, q := range d.qualifiers {
		if n, ok := q.(Named); ok {
			return n
		}
	}
	panic(errMissingNamingQualifier(reflectx.TypeKey(d.declared)))
}

func (d *Descriptor) notify(q Qualifier) {
	if d.index != nil {
		d.index.BindQualifier(d, q)
	}
}

// key uniquely identifies the descriptor within a container: the same
// struct type may be registered several times under different names.
func (d *Descriptor) key() string {
	return reflectx.TypeKey(d.declared) + "#" + d.name
}

// exposes reports whether t is in the descriptor's exposed set.
func (d *Descriptor) exposes(t reflect.Type) bool {
	for _, e := range d.exposed {
		if e == t {
			return true
		}
	}
	return false
}

// slotCount returns the number of injection slots across the
// constructor, the leaf's fields and methods, and every ancestor
// level.
func (d *Descriptor) slotCount() int {
	n := len(d.fields)
	if d.ctor != nil {
		n += len(d.ctor.params)
	}
	for _, m := range d.methods {
		n += len(m.params)
	}
	for _, lvl := range d.ancestors {
		n += len(lvl.fields)
		for _, m := range lvl.methods {
			n += len(m.params)
		}
	}
	return n
}

// allSlots flattens every injection slot of the descriptor in
// resolution order: constructor parameters, then each ancestor level's
// fields and method parameters, then the leaf's.
func (d *Descriptor) allSlots() []slot {
	out := make([]slot, 0, d.slotCount())
	if d.ctor != nil {
		out = append(out, d.ctor.params...)
	}
	for _, lvl := range d.ancestors {
		out = append(out, lvl.fields...)
		for _, m := range lvl.methods {
			out = append(out, m.params...)
		}
	}
	out = append(out, d.fields...)
	for _, m := range d.methods {
		out = append(out, m.params...)
	}
	return out
}
