package weft

import "github.com/rs/zerolog"

// Option configures a Container at construction.
type Option func(*containerConfig)

// WithLogger sets the container's logger. The default is a no-op
// logger, so embedding applications stay silent unless they opt in.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

// WithCreateObserver registers a hook observing every construction.
func WithCreateObserver(hook CreateHook) Option {
	return func(cfg *containerConfig) {
		cfg.onCreate = append(cfg.onCreate, hook)
	}
}

// WithLookupObserver registers a hook observing every lookup.
func WithLookupObserver(hook LookupHook) Option {
	return func(cfg *containerConfig) {
		cfg.onLookup = append(cfg.onLookup, hook)
	}
}

// WithStartObserver registers a hook observing component startup.
func WithStartObserver(hook StartHook) Option {
	return func(cfg *containerConfig) {
		cfg.onStart = append(cfg.onStart, hook)
	}
}

// WithStopObserver registers a hook observing component shutdown.
func WithStopObserver(hook StopHook) Option {
	return func(cfg *containerConfig) {
		cfg.onStop = append(cfg.onStop, hook)
	}
}
