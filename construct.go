package weft

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// creation tracks one construction cascade: the trace id shared by
// every nested construction, the component path for error chains, and
// the descriptors currently in flight for cycle detection.
type creation struct {
	trace uuid.UUID
	path  []string
	seen  map[*Descriptor]bool
}

func newCreation() *creation {
	return &creation{
		trace: uuid.New(),
		seen:  make(map[*Descriptor]bool),
	}
}

func (cr *creation) enter(d *Descriptor) {
	cr.path = append(cr.path, d.name)
	cr.seen[d] = true
}

func (cr *creation) exit(d *Descriptor) {
	cr.path = cr.path[:len(cr.path)-1]
	delete(cr.seen, d)
}

// chainTo renders the in-flight path plus the descriptor that closed
// the cycle.
func (cr *creation) chainTo(d *Descriptor) []string {
	chain := make([]string, 0, len(cr.path)+1)
	chain = append(chain, cr.path...)
	chain = append(chain, d.name)
	return chain
}

// create runs one full construction: the constructor or zero-value
// allocation, then the injection walk over the embedding chain. Every
// construction is timed, observed and traced, and failures propagate
// to the caller instead of yielding a half-built instance.
func (c *Container) create(d *Descriptor, cr *creation) (instance any, err error) {
	if d.isValue {
		return nil, errInvalidComponent(d.name, "value components are provided, not constructed")
	}
	if cr.seen[d] {
		return nil, errCircularDependency(cr.chainTo(d))
	}

	cr.enter(d)
	defer cr.exit(d)

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		for _, hook := range c.onCreate {
			hook(cr.trace, d.name, duration, err)
		}
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("component", d.name).
				Str("trace", cr.trace.String()).
				Msg("construction failed")
			return
		}
		c.logger.Debug().
			Str("component", d.name).
			Str("trace", cr.trace.String()).
			Dur("duration", duration).
			Msg("constructed component")
	}()

	value, err := c.construct(d, cr)
	if err != nil {
		return nil, err
	}
	if err = c.applyInjections(d, value, cr); err != nil {
		return nil, err
	}

	return value.Interface(), nil
}

// construct produces the raw instance: through the marked constructor
// when one was registered, with its parameter slots resolved first in
// declaration order, or as the type's zero value otherwise.
func (c *Container) construct(d *Descriptor, cr *creation) (reflect.Value, error) {
	if d.ctor == nil {
		return reflect.New(d.declared), nil
	}

	args := make([]reflect.Value, len(d.ctor.params))
	for i, p := range d.ctor.params {
		arg, _, err := c.slotValue(p, cr)
		if err != nil {
			return reflect.Value{}, errConstructionFailed(d.name, err)
		}
		args[i] = arg
	}

	results, err := callGuarded(d.name, d.ctor.fn, args)
	if err != nil {
		return reflect.Value{}, err
	}

	if d.ctor.hasErr && !results[1].IsNil() {
		return reflect.Value{}, errConstructionFailed(d.name, results[1].Interface().(error))
	}
	if results[0].IsNil() {
		return reflect.Value{}, errConstructionFailed(d.name, errors.New("constructor returned nil"))
	}

	return results[0], nil
}

// callGuarded invokes fn and converts a panic into a construction
// error carrying the panic value, so one failing component cannot tear
// down the goroutine that asked for it.
func callGuarded(component string, fn reflect.Value, args []reflect.Value) (results []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errConstructionFailed(component, fmt.Errorf("panic: %v", r))
		}
	}()
	return fn.Call(args), nil
}
