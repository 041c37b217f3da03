package weft

import "github.com/weftlib/weft/internal/scope"

type Scope = scope.Scope

const (
	// Singleton components are constructed once and cached by the
	// container. This is the default scope.
	Singleton = scope.Singleton
	// Prototype components are constructed fresh on every lookup.
	Prototype = scope.Prototype
)
