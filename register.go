package weft

import (
	"reflect"

	"github.com/weftlib/weft/internal/reflectx"
)

type registerConfig struct {
	name       string
	qualifiers []Qualifier
	scope      Scope
	ctors      []any
	exposed    []reflect.Type
}

func newRegisterConfig() *registerConfig {
	return &registerConfig{scope: Singleton}
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerConfig)

// WithName overrides the component name. The default is the type name
// with its first rune lowered.
func WithName(name string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.name = name
	}
}

// WithConstructor marks fn as the component's constructor. fn must
// return *T or (*T, error); its parameters are resolved from the
// container by type. Marking more than one constructor fails the
// registration.
func WithConstructor(fn any) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.ctors = append(cfg.ctors, fn)
	}
}

// WithQualifiers attaches extra qualifiers to the component. Naming
// happens through WithName; passing a Named qualifier here fails the
// registration.
func WithQualifiers(qs ...Qualifier) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.qualifiers = append(cfg.qualifiers, qs...)
	}
}

// WithScope sets the component's scope. The default is Singleton.
func WithScope(s Scope) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.scope = s
	}
}

// As additionally indexes the component under the interface I, so
// lookups and injection sites typed I match it. The component must
// implement I.
func As[I any]() RegisterOption {
	return func(cfg *registerConfig) {
		cfg.exposed = append(cfg.exposed, reflectx.TypeFor[I]())
	}
}

// Register adds a component of struct type T (or *T) to the container
// and returns its descriptor. Instances are handed out as *T. The
// descriptor's injection slots are discovered now; its name, extra
// qualifiers and scope may still be adjusted through the descriptor
// until the container starts.
func Register[T any](c *Container, opts ...RegisterOption) (*Descriptor, error) {
	cfg := newRegisterConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	d, err := buildDescriptor(reflectx.TypeFor[T](), cfg)
	if err != nil {
		return nil, err
	}
	if err := c.register(d); err != nil {
		return nil, err
	}
	return d, nil
}

// MustRegister is Register, panicking on error. Registration errors
// are configuration mistakes, so most bootstrap code prefers this
// form.
func MustRegister[T any](c *Container, opts ...RegisterOption) *Descriptor {
	d, err := Register[T](c, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// RegisterValue adds a pre-built value under the static type T. Values
// carry no injection slots, are always singletons, and are never
// started or stopped by the container. Registering an interface type
// for a concrete value binds the interface:
//
//	weft.RegisterValue[Repo](c, &pgRepo{})
func RegisterValue[T any](c *Container, value T, opts ...RegisterOption) (*Descriptor, error) {
	t := reflectx.TypeFor[T]()
	if reflectx.IsNil(value) {
		return nil, errInvalidComponent(reflectx.TypeKey(t), "value must not be nil")
	}

	cfg := newRegisterConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	d, err := buildValueDescriptor(t, cfg)
	if err != nil {
		return nil, err
	}

	// The instance is cached before the descriptor becomes visible, so
	// a concurrent lookup can never observe a value-less value
	// component.
	c.storeInstance(d, value)
	if err := c.register(d); err != nil {
		c.dropInstance(d)
		return nil, err
	}
	return d, nil
}

// MustRegisterValue is RegisterValue, panicking on error.
func MustRegisterValue[T any](c *Container, value T, opts ...RegisterOption) *Descriptor {
	d, err := RegisterValue(c, value, opts...)
	if err != nil {
		panic(err)
	}
	return d
}
