package weft

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/weftlib/weft/internal/reflectx"
)

// tagKey is the struct tag marking a field as an injection slot.
const tagKey = "weft"

// injectPrefix marks the exported methods invoked during resolution.
const injectPrefix = "Inject"

// buildDescriptor assembles the descriptor of a built component. It
// normalizes the registered type to its struct form, settles the name
// and qualifier set, validates the constructor and the exposed types,
// and scans the leaf plus every embedding level for injection slots.
func buildDescriptor(t reflect.Type, cfg *registerConfig) (*Descriptor, error) {
	declared, err := componentType(t)
	if err != nil {
		return nil, err
	}

	name, err := componentName(declared, cfg.name)
	if err != nil {
		return nil, err
	}

	qualifiers, err := initialQualifiers(name, cfg.qualifiers)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		name:       name,
		qualifiers: qualifiers,
		scope:      cfg.scope,
		declared:   declared,
		instance:   reflect.PointerTo(declared),
	}

	switch len(cfg.ctors) {
	case 0:
	case 1:
		ctor, err := buildConstructor(declared, name, cfg.ctors[0])
		if err != nil {
			return nil, err
		}
		d.ctor = ctor
	default:
		return nil, errMultipleConstructors(name)
	}

	for _, e := range cfg.exposed {
		if err := checkExposable(d.instance, e); err != nil {
			return nil, err
		}
		d.exposed = append(d.exposed, e)
	}

	if d.fields, err = buildFields(declared, name, nil); err != nil {
		return nil, err
	}
	if d.methods, err = buildMethods(declared, name); err != nil {
		return nil, err
	}

	for _, lvl := range reflectx.EmbeddedLevels(declared) {
		spec := levelSpec{path: lvl.Path, typ: lvl.Type}
		if spec.fields, err = buildFields(lvl.Type, name, lvl.Path); err != nil {
			return nil, err
		}
		if spec.methods, err = buildMethods(lvl.Type, name); err != nil {
			return nil, err
		}
		d.ancestors = append(d.ancestors, spec)
	}

	return d, nil
}

// buildValueDescriptor assembles the descriptor of a pre-built value.
// Values keep the exact type they were registered under, carry no
// slots and are always singletons.
func buildValueDescriptor(t reflect.Type, cfg *registerConfig) (*Descriptor, error) {
	name := cfg.name
	if name == "" {
		base := t
		if base.Kind() == reflect.Pointer {
			base = base.Elem()
		}
		if base.Name() == "" {
			return nil, errInvalidComponent(reflectx.TypeKey(t), "unnamed types need an explicit component name")
		}
		name = reflectx.LowerFirst(base.Name())
	}

	if len(cfg.ctors) > 0 {
		return nil, errInvalidConstructor(name, "value components take no constructor")
	}
	if cfg.scope != Singleton {
		return nil, errInvalidComponent(name, "value components are always singletons")
	}

	qualifiers, err := initialQualifiers(name, cfg.qualifiers)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		name:       name,
		qualifiers: qualifiers,
		scope:      Singleton,
		declared:   t,
		instance:   t,
		isValue:    true,
	}

	for _, e := range cfg.exposed {
		if err := checkExposable(t, e); err != nil {
			return nil, err
		}
		d.exposed = append(d.exposed, e)
	}

	return d, nil
}

// componentType normalizes T and *T to the underlying struct type.
func componentType(t reflect.Type) (reflect.Type, error) {
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return nil, errInvalidComponent(reflectx.TypeKey(t), "components must be struct types")
	}
	return base, nil
}

// componentName settles the component name: the explicit name when
// given, otherwise the type name with its first rune lowered.
func componentName(declared reflect.Type, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if declared.Name() == "" {
		return "", errInvalidComponent(reflectx.TypeKey(declared), "unnamed types need an explicit component name")
	}
	return reflectx.LowerFirst(declared.Name()), nil
}

// initialQualifiers builds the registration qualifier set: the naming
// qualifier first, then the extras with set semantics. Extra Named
// qualifiers are rejected so the exactly-one-name invariant holds from
// the first moment of a descriptor's life.
func initialQualifiers(name string, extra []Qualifier) ([]Qualifier, error) {
	qualifiers := []Qualifier{Named(name)}
	for _, q := range extra {
		if isNaming(q) {
			return nil, errInvalidComponent(name, "components are named through WithName, not a Named qualifier")
		}
		dup := false
		for _, have := range qualifiers {
			if qualifierEqual(have, q) {
				dup = true
				break
			}
		}
		if !dup {
			qualifiers = append(qualifiers, q)
		}
	}
	return qualifiers, nil
}

// buildConstructor validates the marked constructor and derives its
// parameter slots. The function must return *T or (*T, error) and must
// not be variadic.
func buildConstructor(declared reflect.Type, component string, fn any) (*constructorSpec, error) {
	if fn == nil {
		return nil, errInvalidConstructor(component, "constructor must not be nil")
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, errInvalidConstructor(component, fmt.Sprintf("constructor must be a function, got %s", reflectx.TypeKey(v.Type())))
	}
	if v.IsNil() {
		return nil, errInvalidConstructor(component, "constructor must not be nil")
	}

	ft := v.Type()
	if ft.IsVariadic() {
		return nil, errInvalidConstructor(component, "variadic constructors are not supported")
	}

	want := reflect.PointerTo(declared)
	hasErr := false
	switch ft.NumOut() {
	case 1:
		if ft.Out(0) != want {
			return nil, errInvalidConstructor(component, fmt.Sprintf("constructor must return %s, got %s", reflectx.TypeKey(want), reflectx.TypeKey(ft.Out(0))))
		}
	case 2:
		if ft.Out(0) != want || ft.Out(1) != errorType {
			return nil, errInvalidConstructor(component, fmt.Sprintf("constructor must return (%s, error)", reflectx.TypeKey(want)))
		}
		hasErr = true
	default:
		return nil, errInvalidConstructor(component, fmt.Sprintf("constructor must return %s or (%s, error)", reflectx.TypeKey(want), reflectx.TypeKey(want)))
	}

	params := make([]slot, 0, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		s := site{kind: constructorParamSite, owner: declared, pos: i}
		params = append(params, newSlot(s, ft.In(i), nil))
	}

	return &constructorSpec{fn: v, params: params, hasErr: hasErr}, nil
}

// buildFields collects the tagged fields declared directly on owner.
// base is the index path from the leaf type to owner, so the slots of
// embedded levels address their fields through the leaf value.
func buildFields(owner reflect.Type, component string, base []int) ([]slot, error) {
	var out []slot

	for i := 0; i < owner.NumField(); i++ {
		f := owner.Field(i)
		raw, ok := f.Tag.Lookup(tagKey)
		if !ok {
			continue
		}
		if f.Anonymous {
			return nil, errInvalidComponent(component, fmt.Sprintf("embedded field %s.%s cannot be an injection slot", owner.Name(), f.Name))
		}
		if f.PkgPath != "" {
			return nil, errInvalidComponent(component, fmt.Sprintf("tagged field %s.%s must be exported", owner.Name(), f.Name))
		}

		tag, err := reflectx.ParseTag(raw)
		if err != nil {
			return nil, errInvalidComponent(component, fmt.Sprintf("field %s.%s: %v", owner.Name(), f.Name, err))
		}

		var criteria []Qualifier
		if tag.Name != "" {
			criteria = append(criteria, Named(tag.Name))
		}
		for _, label := range tag.Labels {
			criteria = append(criteria, Labeled(label))
		}

		index := make([]int, 0, len(base)+1)
		index = append(index, base...)
		index = append(index, i)

		s := site{kind: fieldSite, owner: owner, name: f.Name, index: index}
		out = append(out, newSlot(s, f.Type, criteria))
	}

	return out, nil
}

// buildMethods collects the inject methods a type declares itself.
// Names promoted from embedded levels are skipped here and handled at
// the level that declares them, so each method body runs exactly once
// on its own receiver.
func buildMethods(typ reflect.Type, component string) ([]methodSpec, error) {
	promoted := make(map[string]bool)
	for _, lvl := range reflectx.EmbeddedLevels(typ) {
		for name := range reflectx.MethodNames(lvl.Type) {
			promoted[name] = true
		}
	}

	ptr := reflect.PointerTo(typ)
	var out []methodSpec

	for i := 0; i < ptr.NumMethod(); i++ {
		m := ptr.Method(i)
		if !strings.HasPrefix(m.Name, injectPrefix) || promoted[m.Name] {
			continue
		}
		spec, err := buildMethodSpec(typ, component, m)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}

	return out, nil
}

// buildMethodSpec validates one inject method and derives its
// parameter slots. Inject methods may return nothing or a single
// error.
func buildMethodSpec(typ reflect.Type, component string, m reflect.Method) (methodSpec, error) {
	ft := m.Type
	if ft.IsVariadic() {
		return methodSpec{}, errInvalidComponent(component, fmt.Sprintf("inject method %s must not be variadic", m.Name))
	}

	hasErr := false
	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) != errorType {
			return methodSpec{}, errInvalidComponent(component, fmt.Sprintf("inject method %s may only return error", m.Name))
		}
		hasErr = true
	default:
		return methodSpec{}, errInvalidComponent(component, fmt.Sprintf("inject method %s may only return error", m.Name))
	}

	params := make([]slot, 0, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		s := site{kind: methodParamSite, owner: typ, name: m.Name, pos: i - 1}
		params = append(params, newSlot(s, ft.In(i), nil))
	}

	return methodSpec{name: m.Name, params: params, hasErr: hasErr}, nil
}

// checkExposable verifies that instances of the component satisfy the
// exposed interface.
func checkExposable(instance, exposed reflect.Type) error {
	if exposed.Kind() != reflect.Interface {
		return errUnassignableType(fmt.Sprintf("exposed type %s is not an interface", reflectx.TypeKey(exposed)))
	}
	if !instance.Implements(exposed) {
		return errUnassignableType(fmt.Sprintf("%s does not implement %s", reflectx.TypeKey(instance), reflectx.TypeKey(exposed)))
	}
	return nil
}
