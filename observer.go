package weft

import (
	"time"

	"github.com/google/uuid"
)

// CreateHook observes component constructions. trace identifies the
// creation that triggered the construction; nested constructions of
// dependencies share the id of the creation that demanded them.
type CreateHook func(trace uuid.UUID, component string, duration time.Duration, err error)

// LookupHook observes lookups. component is the label of what was
// asked for, including any criteria.
type LookupHook func(component string, duration time.Duration, err error)

// StartHook observes component startup during Container.Start.
type StartHook func(component string, duration time.Duration, err error)

// StopHook observes component shutdown during Container.Stop.
type StopHook func(component string, duration time.Duration, err error)
