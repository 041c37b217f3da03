package weft

import "reflect"

type siteKind int

const (
	fieldSite siteKind = iota
	constructorParamSite
	methodParamSite
)

func (k siteKind) String() string {
	switch k {
	case fieldSite:
		return "field"
	case constructorParamSite:
		return "constructor parameter"
	case methodParamSite:
		return "method parameter"
	default:
		return "unknown"
	}
}

// site identifies where a slot lives on its declaring type: the field
// index path for field sites, or the member name plus parameter
// position for constructor and method sites.
type site struct {
	kind  siteKind
	owner reflect.Type
	name  string
	index []int
	pos   int
}

// slot is a single injection point discovered at descriptor build
// time. Slots are immutable once built. A deferred slot's typ is the
// full Provider[...] instantiation; its provider field carries the
// paired provider slot.
type slot struct {
	site     site
	typ      reflect.Type
	criteria []Qualifier
	deferred bool
	provider *providerSlot
}

// providerSlot pairs with a deferred slot: same site, the Provider
// instantiation to synthesize, the element type its calls look up, and
// the criteria those lookups carry.
type providerSlot struct {
	site     site
	typ      reflect.Type
	elem     reflect.Type
	criteria []Qualifier
}

func newSlot(s site, typ reflect.Type, criteria []Qualifier) slot {
	sl := slot{site: s, typ: typ, criteria: criteria}
	if isProviderType(typ) {
		sl.deferred = true
		sl.provider = &providerSlot{
			site:     s,
			typ:      typ,
			elem:     typ.Out(0),
			criteria: criteria,
		}
	}
	return sl
}

// methodSpec is one marker method of a descriptor level: its name, its
// parameter slots in declaration order, and whether it reports errors.
type methodSpec struct {
	name   string
	params []slot
	hasErr bool
}

// constructorSpec is the single marked constructor of a component: the
// function, its parameter slots in positional order, and whether it
// returns an error alongside the instance.
type constructorSpec struct {
	fn     reflect.Value
	params []slot
	hasErr bool
}
