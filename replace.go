package weft

import (
	"reflect"

	"github.com/weftlib/weft/internal/reflectx"
)

// ReplaceValue swaps the component matching T for a pre-built value,
// keeping the old component's name, qualifiers and exposed types. When
// nothing matches, the value is registered instead, so test setups can
// install fakes without caring whether production wiring ran first.
// Replacement is only permitted before the container starts.
func ReplaceValue[T any](c *Container, value T, opts ...RegisterOption) (*Descriptor, error) {
	t := reflectx.TypeFor[T]()
	if reflectx.IsNil(value) {
		return nil, errReplaceFailed(reflectx.TypeKey(t), errInvalidComponent(reflectx.TypeKey(t), "value must not be nil"))
	}

	cfg := newRegisterConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var criteria []Qualifier
	if cfg.name != "" {
		criteria = append(criteria, Named(cfg.name))
	}

	c.mu.RLock()
	matched := c.matchLocked(t, criteria)
	c.mu.RUnlock()

	switch len(matched) {
	case 0:
		return RegisterValue(c, value, opts...)
	case 1:
		return c.swapValue(matched[0], t, value, cfg)
	default:
		names := make([]string, len(matched))
		for i, d := range matched {
			names[i] = d.name
		}
		return nil, errReplaceFailed(reflectx.TypeKey(t), errAmbiguousComponent(requiredLabel(t, criteria), names))
	}
}

// ReplaceNamedValue is ReplaceValue narrowed to the component with the
// given name.
func ReplaceNamedValue[T any](c *Container, name string, value T, opts ...RegisterOption) (*Descriptor, error) {
	opts = append(opts, WithName(name))
	return ReplaceValue(c, value, opts...)
}

// MustReplaceValue is ReplaceValue, panicking on error.
func MustReplaceValue[T any](c *Container, value T, opts ...RegisterOption) *Descriptor {
	d, err := ReplaceValue(c, value, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// swapValue builds the replacement descriptor under the old identity
// and exchanges it atomically in the registry. The value must satisfy
// every type the old component was exposed under, or its dependents
// would silently lose their match.
func (c *Container) swapValue(old *Descriptor, t reflect.Type, value any, cfg *registerConfig) (*Descriptor, error) {
	cfg.name = old.name
	for _, q := range old.qualifiers {
		if !isNaming(q) {
			cfg.qualifiers = append(cfg.qualifiers, q)
		}
	}
	// The replacement registers under t itself; only the other exposed
	// types carry over.
	for _, e := range old.exposed {
		if e != t {
			cfg.exposed = append(cfg.exposed, e)
		}
	}

	d, err := buildValueDescriptor(t, cfg)
	if err != nil {
		return nil, errReplaceFailed(old.name, err)
	}

	c.storeInstance(d, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateNew {
		c.dropInstance(d)
		return nil, errContainerStarted("replacement")
	}
	if !c.registeredLocked(old) {
		c.dropInstance(d)
		return nil, errReplaceFailed(old.name, errComponentNotFound(old.name))
	}

	c.removeLocked(old)
	c.dropInstance(old)

	c.byKey[d.key()] = d
	c.all = append(c.all, d)
	c.byType[d.instance] = append(c.byType[d.instance], d)
	for _, e := range d.exposed {
		c.byType[e] = append(c.byType[e], d)
	}
	for _, q := range d.qualifiers {
		c.bindLocked(d, q)
	}
	d.index = c

	c.logger.Debug().
		Str("component", d.name).
		Str("type", reflectx.TypeKey(t)).
		Msg("replaced component")

	return d, nil
}

// removeLocked unregisters a descriptor from every index. Binding
// entries stay behind and are filtered out at lookup.
func (c *Container) removeLocked(d *Descriptor) {
	delete(c.byKey, d.key())

	for i, have := range c.all {
		if have == d {
			c.all = append(c.all[:i], c.all[i+1:]...)
			break
		}
	}

	c.byType[d.instance] = withoutDescriptor(c.byType[d.instance], d)
	for _, e := range d.exposed {
		c.byType[e] = withoutDescriptor(c.byType[e], d)
	}
}

func withoutDescriptor(list []*Descriptor, d *Descriptor) []*Descriptor {
	for i, have := range list {
		if have == d {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
