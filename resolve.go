package weft

import (
	"reflect"

	"github.com/weftlib/weft/internal/reflectx"
)

// applyInjections walks the embedding chain top down: the most distant
// level's slots first, then each nearer level, the leaf last. Only
// levels that are themselves registered components contribute slots; a
// plain embedded struct is carried as-is. Within a level fields are
// filled before methods run, so a level's methods see its fields
// populated. Methods run on the receiver of the level that declares
// them.
func (c *Container) applyInjections(d *Descriptor, value reflect.Value, cr *creation) error {
	elem := value.Elem()

	for _, lvl := range d.ancestors {
		if !c.levelRegistered(lvl.typ) {
			continue
		}
		if err := c.applyFields(d, lvl.fields, elem, cr); err != nil {
			return err
		}
		receiver := elem.FieldByIndex(lvl.path).Addr()
		if err := c.applyMethods(d, lvl.methods, receiver, cr); err != nil {
			return err
		}
	}

	if err := c.applyFields(d, d.fields, elem, cr); err != nil {
		return err
	}
	return c.applyMethods(d, d.methods, value, cr)
}

// levelRegistered reports whether an embedding level's type is
// registered as a component in its own right.
func (c *Container) levelRegistered(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byType[reflect.PointerTo(t)]) > 0
}

// applyFields fills tagged fields through their index paths. A slot
// whose dependency is missing is left untouched, so callers may
// pre-populate fields before handing an instance over.
func (c *Container) applyFields(d *Descriptor, slots []slot, elem reflect.Value, cr *creation) error {
	for _, s := range slots {
		v, ok, err := c.slotValue(s, cr)
		if err != nil {
			return errResolutionFailed(d.name, err)
		}
		if !ok {
			continue
		}
		elem.FieldByIndex(s.site.index).Set(v)
	}
	return nil
}

// applyMethods invokes inject methods with their parameter slots
// resolved positionally. Missing parameters are passed as zero values;
// a method returning a non-nil error aborts the resolution.
func (c *Container) applyMethods(d *Descriptor, methods []methodSpec, receiver reflect.Value, cr *creation) error {
	for _, m := range methods {
		args := make([]reflect.Value, len(m.params))
		for i, p := range m.params {
			v, _, err := c.slotValue(p, cr)
			if err != nil {
				return errResolutionFailed(d.name, err)
			}
			args[i] = v
		}

		results, err := callGuarded(d.name, receiver.MethodByName(m.name), args)
		if err != nil {
			return err
		}
		if m.hasErr && !results[0].IsNil() {
			return errResolutionFailed(d.name, results[0].Interface().(error))
		}
	}
	return nil
}

// slotValue produces the value for one slot: the direct match when one
// exists, a synthesized provider for deferred slots whose direct match
// misses, and the type's zero value when nothing matches. The boolean
// reports whether anything matched; ambiguity is the only matching
// failure.
func (c *Container) slotValue(s slot, cr *creation) (reflect.Value, bool, error) {
	instance, err := c.resolveType(s.typ, s.criteria, cr)
	if err == nil {
		return reflect.ValueOf(instance), true, nil
	}
	if !IsNotFound(err) {
		return reflect.Value{}, false, err
	}
	if s.deferred {
		return c.materializeProvider(s.provider), true, nil
	}
	return reflect.Zero(s.typ), false, nil
}

// ResolveInto fills the injection slots of a caller-supplied instance.
// The target must be a non-nil struct pointer. When its type is
// registered, the registered descriptor drives the walk; otherwise the
// slots are discovered on the fly.
func (c *Container) ResolveInto(instance any) error {
	value := reflect.ValueOf(instance)
	if !value.IsValid() || value.Kind() != reflect.Pointer || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return errInvalidComponent(reflectx.TypeKeyFromValue(instance), "resolve targets must be non-nil struct pointers")
	}

	d, err := c.descriptorForTarget(value.Type())
	if err != nil {
		return err
	}
	return c.applyInjections(d, value, newCreation())
}

// descriptorForTarget finds the registered descriptor for a resolve
// target, or builds a transient one. Multiple registrations of the
// same type share their slot layout, so any of them drives the walk.
func (c *Container) descriptorForTarget(ptr reflect.Type) (*Descriptor, error) {
	c.mu.RLock()
	matched := c.matchLocked(ptr, nil)
	c.mu.RUnlock()

	if len(matched) > 0 {
		return matched[0], nil
	}
	return buildDescriptor(ptr, newRegisterConfig())
}

// Create constructs a fresh instance of a registered component,
// bypassing the singleton cache. The descriptor must belong to this
// container.
func (c *Container) Create(d *Descriptor) (any, error) {
	c.mu.RLock()
	registered := c.registeredLocked(d)
	c.mu.RUnlock()

	if !registered {
		return nil, errComponentNotFound(d.name)
	}
	return c.create(d, newCreation())
}
