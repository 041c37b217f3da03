// Package wefttest provides helpers for testing code that is wired
// through a weft container. A TestContainer fails the surrounding test
// on setup errors and stops the container automatically on cleanup, so
// tests stay focused on behavior instead of plumbing.
package wefttest

import (
	"context"

	"github.com/weftlib/weft"
	"github.com/weftlib/weft/internal/reflectx"
)

// TB is the subset of testing.TB the helpers need. Both *testing.T and
// *testing.B satisfy it.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestContainer wraps a weft container with test-failing helpers.
type TestContainer struct {
	*weft.Container
	tb TB
}

// New creates a container for a test and registers a cleanup that stops
// it when the test finishes. Stopping a container that was never started
// is a no-op, so New is safe for tests that only resolve components.
func New(tb TB, opts ...weft.Option) *TestContainer {
	tb.Helper()

	c := weft.New(opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(func() {
		if err := c.Stop(context.Background()); err != nil {
			tb.Fatalf("failed to stop container: %v", err)
		}
	})

	return tc
}

// RequireStart starts the container and fails the test on error.
func (tc *TestContainer) RequireStart(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Start(ctx); err != nil {
		tc.tb.Fatalf("failed to start container: %v", err)
	}
}

// RequireStop stops the container and fails the test on error.
func (tc *TestContainer) RequireStop(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Stop(ctx); err != nil {
		tc.tb.Fatalf("failed to stop container: %v", err)
	}
}

// RequireValidate validates the container and fails the test on error.
func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

// Register registers T and fails the test on error.
func Register[T any](tc *TestContainer, opts ...weft.RegisterOption) *weft.Descriptor {
	tc.tb.Helper()

	d, err := weft.Register[T](tc.Container, opts...)
	if err != nil {
		tc.tb.Fatalf("failed to register %s: %v", typeKey[T](), err)
	}
	return d
}

// RegisterValue registers a pre-built value and fails the test on error.
func RegisterValue[T any](tc *TestContainer, value T, opts ...weft.RegisterOption) *weft.Descriptor {
	tc.tb.Helper()

	d, err := weft.RegisterValue(tc.Container, value, opts...)
	if err != nil {
		tc.tb.Fatalf("failed to register value %s: %v", typeKey[T](), err)
	}
	return d
}

// Replace swaps the registration matching T for a pre-built value,
// registering it fresh when nothing matches. It fails the test on error.
func Replace[T any](tc *TestContainer, value T, opts ...weft.RegisterOption) *weft.Descriptor {
	tc.tb.Helper()

	d, err := weft.ReplaceValue(tc.Container, value, opts...)
	if err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", typeKey[T](), err)
	}
	return d
}

// ReplaceNamed swaps the registration of T under name for a pre-built
// value and fails the test on error.
func ReplaceNamed[T any](tc *TestContainer, name string, value T) *weft.Descriptor {
	tc.tb.Helper()

	d, err := weft.ReplaceNamedValue(tc.Container, name, value)
	if err != nil {
		tc.tb.Fatalf("failed to replace %s %q: %v", typeKey[T](), name, err)
	}
	return d
}

// Lookup resolves T and fails the test on error.
func Lookup[T any](tc *TestContainer, criteria ...weft.Qualifier) T {
	tc.tb.Helper()

	v, err := weft.Lookup[T](tc.Container, criteria...)
	if err != nil {
		tc.tb.Fatalf("failed to look up %s: %v", typeKey[T](), err)
	}
	return v
}

// LookupNamed resolves T under name and fails the test on error.
func LookupNamed[T any](tc *TestContainer, name string) T {
	tc.tb.Helper()

	v, err := weft.LookupNamed[T](tc.Container, name)
	if err != nil {
		tc.tb.Fatalf("failed to look up %s %q: %v", typeKey[T](), name, err)
	}
	return v
}

// AssertHas fails the test unless the container can satisfy T.
func AssertHas[T any](tc *TestContainer, criteria ...weft.Qualifier) {
	tc.tb.Helper()

	if !weft.Has[T](tc.Container, criteria...) {
		tc.tb.Fatalf("expected container to have %s", typeKey[T]())
	}
}

// AssertNotHas fails the test if the container can satisfy T.
func AssertNotHas[T any](tc *TestContainer, criteria ...weft.Qualifier) {
	tc.tb.Helper()

	if weft.Has[T](tc.Container, criteria...) {
		tc.tb.Fatalf("expected container to not have %s", typeKey[T]())
	}
}

func typeKey[T any]() string {
	return reflectx.TypeKey(reflectx.TypeFor[T]())
}
