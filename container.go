package weft

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/weftlib/weft/internal/graph"
	"github.com/weftlib/weft/internal/reflectx"
)

type containerState int

const (
	stateNew containerState = iota
	stateStarting
	stateRunning
	stateStopping
	stateStopped
)

func (s containerState) String() string {
	switch s {
	case stateNew:
		return "new"
	case stateStarting:
		return "starting"
	case stateRunning:
		return "running"
	case stateStopping:
		return "stopping"
	case stateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type containerConfig struct {
	logger   zerolog.Logger
	onCreate []CreateHook
	onLookup []LookupHook
	onStart  []StartHook
	onStop   []StopHook
}

// Container holds component descriptors and the singleton instances
// built from them. Components are registered during bootstrap, then
// the container is started; registration and descriptor mutation are
// rejected afterwards, while lookups are safe from any goroutine at
// any point of the lifecycle.
type Container struct {
	mu    sync.RWMutex
	state containerState

	// byType indexes descriptors under their instance type and every
	// exposed type. byKey holds one entry per registration and backs
	// duplicate detection; all preserves registration order.
	byType map[reflect.Type][]*Descriptor
	byKey  map[string]*Descriptor
	all    []*Descriptor

	// bindings maps qualifier strings to candidate descriptors. It is
	// append-only: entries staled by a rename are filtered out at
	// lookup by re-checking the descriptor's current qualifiers.
	bindings map[string][]*Descriptor

	instMu    sync.RWMutex
	instances map[*Descriptor]any

	logger   zerolog.Logger
	onCreate []CreateHook
	onLookup []LookupHook
	onStart  []StartHook
	onStop   []StopHook
}

// New builds an empty container.
func New(opts ...Option) *Container {
	cfg := &containerConfig{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Container{
		byType:    make(map[reflect.Type][]*Descriptor),
		byKey:     make(map[string]*Descriptor),
		bindings:  make(map[string][]*Descriptor),
		instances: make(map[*Descriptor]any),
		logger:    cfg.logger,
		onCreate:  cfg.onCreate,
		onLookup:  cfg.onLookup,
		onStart:   cfg.onStart,
		onStop:    cfg.onStop,
	}
}

func (c *Container) register(d *Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateNew {
		return errContainerStarted("registration")
	}

	key := d.key()
	if _, exists := c.byKey[key]; exists {
		return errDuplicateComponent(d.name)
	}

	c.byKey[key] = d
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
		Str("type", reflectx.TypeKey(d.declared)).
		Str("scope", d.scope.String()).
		Msg("registered component")

	return nil
}

// BindQualifier records a qualifier binding for a registered
// descriptor. Descriptor mutators call it when a qualifier arrives or
// the component is renamed; user code never needs to. Mutating a
// started container panics.
func (c *Container) BindQualifier(d *Descriptor, q Qualifier) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateNew {
		panic(errContainerStarted("qualifier binding"))
	}

	if isNaming(q) {
		c.rekeyLocked(d)
	}
	c.bindLocked(d, q)

	c.logger.Debug().
		Str("component", d.name).
		Str("qualifier", q.String()).
		Msg("bound qualifier")
}

// rekeyLocked moves d to its post-rename registry key. A rename that
// collides with another registration of the same type panics, as
// registering that name would have.
func (c *Container) rekeyLocked(d *Descriptor) {
	key := d.key()
	if other, exists := c.byKey[key]; exists && other != d {
		panic(errDuplicateComponent(d.name))
	}
	for old, have := range c.byKey {
		if have == d && old != key {
			delete(c.byKey, old)
			break
		}
	}
	c.byKey[key] = d
}

func (c *Container) bindLocked(d *Descriptor, q Qualifier) {
	key := q.String()
	for _, have := range c.bindings[key] {
		if have == d {
			return
		}
	}
	c.bindings[key] = append(c.bindings[key], d)
}

// matchLocked returns the descriptors indexed under t that satisfy
// every criterion. Callers hold the registry lock.
func (c *Container) matchLocked(t reflect.Type, criteria []Qualifier) []*Descriptor {
	var matched []*Descriptor
	for _, d := range c.byType[t] {
		if satisfies(d.qualifiers, criteria) {
			matched = append(matched, d)
		}
	}
	return matched
}

// matchOne resolves t and criteria to exactly one descriptor. More
// than one match is an error; no match is reported as not found, and
// injection sites translate that into an untouched slot.
func (c *Container) matchOne(t reflect.Type, criteria []Qualifier) (*Descriptor, error) {
	c.mu.RLock()
	matched := c.matchLocked(t, criteria)
	c.mu.RUnlock()

	switch len(matched) {
	case 1:
		return matched[0], nil
	case 0:
		return nil, errComponentNotFound(requiredLabel(t, criteria))
	default:
		names := make([]string, len(matched))
		for i, d := range matched {
			names[i] = d.name
		}
		return nil, errAmbiguousComponent(requiredLabel(t, criteria), names)
	}
}

// requiredLabel renders what a lookup asked for, for errors and
// observer hooks.
func requiredLabel(t reflect.Type, criteria []Qualifier) string {
	if len(criteria) == 0 {
		return reflectx.TypeKey(t)
	}
	return reflectx.TypeKey(t) + " (" + strings.Join(qualifierStrings(criteria), ", ") + ")"
}

// lookupType is the container-bound lookup every public entry point
// and synthesized provider funnels through.
func (c *Container) lookupType(t reflect.Type, criteria ...Qualifier) (any, error) {
	start := time.Now()
	instance, err := c.resolveType(t, criteria, newCreation())
	c.notifyLookup(requiredLabel(t, criteria), time.Since(start), err)
	return instance, err
}

// resolveType is the in-creation variant: slot resolution threads its
// creation through, so cycle detection spans nested constructions.
func (c *Container) resolveType(t reflect.Type, criteria []Qualifier, cr *creation) (any, error) {
	d, err := c.matchOne(t, criteria)
	if err != nil {
		return nil, err
	}
	return c.instanceFor(d, cr)
}

// instanceFor applies scope policy: values and cached singletons are
// returned as-is, prototypes construct fresh every time, and the first
// singleton use constructs under the descriptor's creation lock.
func (c *Container) instanceFor(d *Descriptor, cr *creation) (any, error) {
	if d.isValue {
		instance, ok := c.cachedInstance(d)
		if !ok {
			return nil, errComponentNotFound(d.name)
		}
		return instance, nil
	}

	if d.scope == Prototype {
		return c.create(d, cr)
	}

	if instance, ok := c.cachedInstance(d); ok {
		return instance, nil
	}

	// The cycle check must run before taking the creation lock: a
	// cyclic chain re-entering d still holds d.createMu further up the
	// stack, and locking again would deadlock instead of reporting.
	if cr.seen[d] {
		return nil, errCircularDependency(cr.chainTo(d))
	}

	d.createMu.Lock()
	defer d.createMu.Unlock()

	if instance, ok := c.cachedInstance(d); ok {
		return instance, nil
	}

	instance, err := c.create(d, cr)
	if err != nil {
		return nil, err
	}
	c.storeInstance(d, instance)
	return instance, nil
}

func (c *Container) cachedInstance(d *Descriptor) (any, bool) {
	c.instMu.RLock()
	defer c.instMu.RUnlock()
	instance, ok := c.instances[d]
	return instance, ok
}

func (c *Container) storeInstance(d *Descriptor, instance any) {
	c.instMu.Lock()
	defer c.instMu.Unlock()
	c.instances[d] = instance
}

func (c *Container) dropInstance(d *Descriptor) {
	c.instMu.Lock()
	defer c.instMu.Unlock()
	delete(c.instances, d)
}

func (c *Container) notifyLookup(label string, duration time.Duration, err error) {
	for _, hook := range c.onLookup {
		hook(label, duration, err)
	}
}

// Validate checks the registrations for dependency cycles and for
// slots matching more than one component. Missing dependencies are not
// validation errors: a slot nobody fills keeps its zero value.
func (c *Container) Validate() error {
	if err := c.checkAmbiguity(); err != nil {
		return errValidationFailed(err)
	}

	g := c.buildGraph()
	if cycles := g.DetectCycles(); len(cycles) > 0 {
		path := g.FindCyclePath(cycles[0][0])
		if len(path) == 0 {
			path = cycles[0]
		}
		return errValidationFailed(errCircularDependency(componentNames(path)))
	}

	return nil
}

func (c *Container) checkAmbiguity() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, d := range c.all {
		for _, s := range d.allSlots() {
			required := s.typ
			if s.deferred {
				required = s.provider.elem
			}
			matched := c.matchLocked(required, s.criteria)
			if len(matched) > 1 {
				names := make([]string, len(matched))
				for i, m := range matched {
					names[i] = m.name
				}
				return errAmbiguousComponent(requiredLabel(required, s.criteria), names).WithComponent(d.name)
			}
		}
	}
	return nil
}

// buildGraph derives the dependency graph from the current
// registrations. It is rebuilt on demand: later registrations change
// what earlier slots match, so edges recorded at registration time
// would go stale. Deferred slots contribute no edges, since a provider
// defers its lookup past construction.
func (c *Container) buildGraph() *graph.Graph {
	g := graph.New()

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, d := range c.all {
		var deps []string
		for _, s := range d.allSlots() {
			if s.deferred {
				continue
			}
			matched := c.matchLocked(s.typ, s.criteria)
			if len(matched) == 1 {
				deps = append(deps, matched[0].key())
			}
		}
		g.AddNode(d.key(), deps)
	}

	return g
}

// componentNames maps graph node ids back to component names.
func componentNames(keys []string) []string {
	names := make([]string, len(keys))
	for i, key := range keys {
		if j := strings.LastIndex(key, "#"); j >= 0 {
			names[i] = key[j+1:]
		} else {
			names[i] = key
		}
	}
	return names
}

// Names returns the registered component names in registration order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.all))
	for i, d := range c.all {
		names[i] = d.name
	}
	return names
}

// Size returns the number of registered components.
func (c *Container) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

func (c *Container) currentState() containerState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Container) descriptors() []*Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Descriptor, len(c.all))
	copy(out, c.all)
	return out
}

func (c *Container) descriptorByKey(key string) (*Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.byKey[key]
	return d, ok
}

func (c *Container) registeredLocked(d *Descriptor) bool {
	return c.byKey[d.key()] == d
}

// candidatesFor consults the binding index for q and filters out
// entries staled by a rename or a replacement.
func (c *Container) candidatesFor(q Qualifier) []*Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*Descriptor
	for _, d := range c.bindings[q.String()] {
		if c.registeredLocked(d) && d.hasQualifier(q) {
			out = append(out, d)
		}
	}
	return out
}
